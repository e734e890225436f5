//go:build 386 || amd64

/*
DESCRIPTION
  bypass_div.go selects integer division for bulk bypass decoding on
  architectures with a fast divide.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package cabac

// DefaultBypassStrategy is the BypassStrategy given to new engines.
const DefaultBypassStrategy = Divide
