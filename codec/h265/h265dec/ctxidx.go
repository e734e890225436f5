/*
DESCRIPTION
  ctxidx.go provides the context index of the first context of each context
  coded syntax element, matching the layout of the cabac context tables.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package h265dec

// First context index of each syntax element. A syntax element using more
// than one context adds its ctxInc to these. Elements decoded only in bypass
// or terminate mode have no contexts and are not listed.
const (
	CtxSAOMergeFlag           = 0
	CtxSAOTypeIdx             = 1
	CtxSplitCUFlag            = 2
	CtxCUTransquantBypassFlag = 5
	CtxCUSkipFlag             = 6
	CtxCUQPDeltaAbs           = 9
	CtxPredModeFlag           = 12
	CtxPartMode               = 13
	CtxPrevIntraLumaPredFlag  = 17
	CtxIntraChromaPredMode    = 18
	CtxMergeFlag              = 20
	CtxMergeIdx               = 21
	CtxInterPredIdc           = 22
	CtxRefIdxL0               = 27
	CtxRefIdxL1               = 29
	CtxAbsMvdGreater0Flag     = 31
	CtxAbsMvdGreater1Flag     = 33
	CtxMvpLXFlag              = 35
	CtxRqtRootCbf             = 36
	CtxSplitTransformFlag     = 37
	CtxCbfLuma                = 40
	CtxCbfChroma              = 42
	CtxTransformSkipFlag      = 46
	CtxExplicitRdpcmFlag      = 48
	CtxExplicitRdpcmDirFlag   = 50
	CtxLastSigCoeffXPrefix    = 52
	CtxLastSigCoeffYPrefix    = 70
	CtxCodedSubBlockFlag      = 88
	CtxSigCoeffFlag           = 92
	CtxCoeffAbsLevelGreater1  = 136
	CtxCoeffAbsLevelGreater2  = 160
	CtxLog2ResScaleAbs        = 166
	CtxResScaleSignFlag       = 174
	CtxCUChromaQPOffsetFlag   = 176
	CtxCUChromaQPOffsetIdx    = 177
)

// ctxNames maps syntax element names, as written in ITU-T H.265 7.3, to their
// first context index.
var ctxNames = map[string]int{
	"sao_merge_flag":                CtxSAOMergeFlag,
	"sao_type_idx":                  CtxSAOTypeIdx,
	"split_cu_flag":                 CtxSplitCUFlag,
	"cu_transquant_bypass_flag":     CtxCUTransquantBypassFlag,
	"cu_skip_flag":                  CtxCUSkipFlag,
	"cu_qp_delta_abs":               CtxCUQPDeltaAbs,
	"pred_mode_flag":                CtxPredModeFlag,
	"part_mode":                     CtxPartMode,
	"prev_intra_luma_pred_flag":     CtxPrevIntraLumaPredFlag,
	"intra_chroma_pred_mode":        CtxIntraChromaPredMode,
	"merge_flag":                    CtxMergeFlag,
	"merge_idx":                     CtxMergeIdx,
	"inter_pred_idc":                CtxInterPredIdc,
	"ref_idx_l0":                    CtxRefIdxL0,
	"ref_idx_l1":                    CtxRefIdxL1,
	"abs_mvd_greater0_flag":         CtxAbsMvdGreater0Flag,
	"abs_mvd_greater1_flag":         CtxAbsMvdGreater1Flag,
	"mvp_lx_flag":                   CtxMvpLXFlag,
	"rqt_root_cbf":                  CtxRqtRootCbf,
	"split_transform_flag":          CtxSplitTransformFlag,
	"cbf_luma":                      CtxCbfLuma,
	"cbf_cb":                        CtxCbfChroma,
	"cbf_cr":                        CtxCbfChroma,
	"transform_skip_flag":           CtxTransformSkipFlag,
	"explicit_rdpcm_flag":           CtxExplicitRdpcmFlag,
	"explicit_rdpcm_dir_flag":       CtxExplicitRdpcmDirFlag,
	"last_sig_coeff_x_prefix":       CtxLastSigCoeffXPrefix,
	"last_sig_coeff_y_prefix":       CtxLastSigCoeffYPrefix,
	"coded_sub_block_flag":          CtxCodedSubBlockFlag,
	"sig_coeff_flag":                CtxSigCoeffFlag,
	"coeff_abs_level_greater1_flag": CtxCoeffAbsLevelGreater1,
	"coeff_abs_level_greater2_flag": CtxCoeffAbsLevelGreater2,
	"log2_res_scale_abs_plus1":      CtxLog2ResScaleAbs,
	"res_scale_sign_flag":           CtxResScaleSignFlag,
	"cu_chroma_qp_offset_flag":      CtxCUChromaQPOffsetFlag,
	"cu_chroma_qp_offset_idx":       CtxCUChromaQPOffsetIdx,
}

// ContextIndex returns the first context index of the named syntax element.
func ContextIndex(name string) (int, bool) {
	idx, ok := ctxNames[name]
	return idx, ok
}
