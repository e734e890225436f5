/*
DESCRIPTION
  peek.go provides unchecked bit peeks over a byte slice. Bits beyond the end
  of the slice read as zero.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bits

// Byte returns buf[i], or 0 if i is outside buf.
func Byte(buf []byte, i int) uint32 {
	if uint(i) >= uint(len(buf)) {
		return 0
	}
	return uint32(buf[i])
}

// Peek32 returns the 32 bits of buf starting at bit offset pos, MSB first.
// Bits past the end of buf are zero.
func Peek32(buf []byte, pos int) uint32 {
	i := pos >> 3
	var v uint64
	if i >= 0 && i+5 <= len(buf) {
		v = uint64(buf[i])<<32 | uint64(buf[i+1])<<24 | uint64(buf[i+2])<<16 |
			uint64(buf[i+3])<<8 | uint64(buf[i+4])
	} else {
		for j := 0; j < 5; j++ {
			v = v<<8 | uint64(Byte(buf, i+j))
		}
	}
	return uint32(v >> (8 - uint(pos&7)))
}

// Bit returns the bit of buf at bit offset pos, or 0 past the end.
func Bit(buf []byte, pos int) uint32 {
	return Byte(buf, pos>>3) >> (7 - uint(pos&7)) & 1
}

// Exhausted reports whether bit offset pos lies past the end of buf.
func Exhausted(buf []byte, pos int) bool {
	return pos > len(buf)*8
}
