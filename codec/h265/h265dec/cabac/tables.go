/*
DESCRIPTION
  tables.go holds the probability tables used by the CABAC decoding engine:
  the LPS range table, the probability state transition tables, the context
  initialisation values for each initialisation type and the reciprocal range
  table used by the bulk bypass decoder.

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

// rangeTabLPS gives the LPS sub-range for a pStateIdx and qRangeIdx.
// ITU-T H.265 Table 9-52.
var rangeTabLPS = [64][4]uint8{
	{128, 176, 208, 240}, {128, 167, 197, 227}, {128, 158, 187, 216}, {123, 150, 178, 205},
	{116, 142, 169, 195}, {111, 135, 160, 185}, {105, 128, 152, 175}, {100, 122, 144, 166},
	{95, 116, 137, 158}, {90, 110, 130, 150}, {85, 104, 123, 142}, {81, 99, 117, 135},
	{77, 94, 111, 128}, {73, 89, 105, 122}, {69, 85, 100, 116}, {66, 80, 95, 110},
	{62, 76, 90, 104}, {59, 72, 86, 99}, {56, 69, 81, 94}, {53, 65, 77, 89},
	{51, 62, 73, 85}, {48, 59, 69, 80}, {46, 56, 66, 76}, {43, 53, 63, 72},
	{41, 50, 59, 69}, {39, 48, 56, 65}, {37, 45, 54, 62}, {35, 43, 51, 59},
	{33, 41, 48, 56}, {32, 39, 46, 53}, {30, 37, 43, 50}, {29, 35, 41, 48},
	{27, 33, 39, 45}, {26, 31, 37, 43}, {24, 30, 35, 41}, {23, 28, 33, 39},
	{22, 27, 32, 37}, {21, 26, 30, 35}, {20, 24, 29, 33}, {19, 23, 27, 31},
	{18, 22, 26, 30}, {17, 21, 25, 28}, {16, 20, 23, 27}, {15, 19, 22, 25},
	{14, 18, 21, 24}, {14, 17, 20, 23}, {13, 16, 19, 22}, {12, 15, 18, 21},
	{12, 14, 17, 20}, {11, 14, 16, 19}, {11, 13, 15, 18}, {10, 12, 15, 17},
	{10, 12, 14, 16}, {9, 11, 13, 15}, {9, 11, 12, 14}, {8, 10, 12, 14},
	{8, 9, 11, 13}, {7, 9, 11, 12}, {7, 9, 10, 12}, {7, 8, 10, 11},
	{6, 8, 9, 11}, {6, 7, 9, 10}, {6, 7, 8, 9}, {2, 2, 2, 2},
}

// State transition tables, ITU-T H.265 Table 9-53.
var (
	transIdxLPS = [64]uint8{
		0, 0, 1, 2, 2, 4, 4, 5, 6, 7, 8, 9, 9, 11, 11, 12,
		13, 13, 15, 15, 16, 16, 18, 18, 19, 19, 21, 21, 22, 22, 23, 24,
		24, 25, 26, 26, 27, 27, 28, 29, 29, 30, 30, 30, 31, 32, 32, 33,
		33, 33, 34, 34, 35, 35, 35, 36, 36, 36, 37, 37, 37, 38, 38, 63,
	}

	transIdxMPS = [64]uint8{
		1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16,
		17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32,
		33, 34, 35, 36, 37, 38, 39, 40, 41, 42, 43, 44, 45, 46, 47, 48,
		49, 50, 51, 52, 53, 54, 55, 56, 57, 58, 59, 60, 61, 62, 62, 63,
	}
)

// Transitions over packed states, indexed by State.
var (
	nextStateMPS [128]State
	nextStateLPS [128]State
)

// invRange holds 2^40/r + 1 for r in [257,511] at index r-256. Index 0 (a
// range of 256) is unused as division by 256 is a shift.
var invRange [256]uint32

func init() {
	for s := 0; s < 128; s++ {
		p, mps := s>>1, s&1
		nextStateMPS[s] = State(int(transIdxMPS[p])<<1 | mps)
		if p == 0 {
			mps ^= 1
		}
		nextStateLPS[s] = State(int(transIdxLPS[p])<<1 | mps)
	}
	for i := 1; i < len(invRange); i++ {
		invRange[i] = uint32(1<<40/uint64(256+i) + 1)
	}
}

// initValues holds initValue for each context index, per initType. Entries
// past the last syntax element are zero.
// ITU-T H.265 Tables 9-5 to 9-37.
var initValues = [3][NumContexts]uint8{
	{
		// sao_merge_flag
		153,
		// sao_type_idx
		200,
		// split_cu_flag
		139, 141, 157,
		// cu_transquant_bypass_flag
		154,
		// cu_skip_flag
		154, 154, 154,
		// cu_qp_delta_abs
		154, 154, 154,
		// pred_mode_flag
		154,
		// part_mode
		184, 154, 154, 154,
		// prev_intra_luma_pred_flag
		184,
		// intra_chroma_pred_mode
		63, 139,
		// merge_flag
		154,
		// merge_idx
		154,
		// inter_pred_idc
		154, 154, 154, 154, 154,
		// ref_idx_l0
		154, 154,
		// ref_idx_l1
		154, 154,
		// abs_mvd_greater0_flag
		154, 154,
		// abs_mvd_greater1_flag
		154, 154,
		// mvp_lx_flag
		154,
		// rqt_root_cbf
		154,
		// split_transform_flag
		153, 138, 138,
		// cbf_luma
		111, 141,
		// cbf_cb, cbf_cr
		94, 138, 182, 154,
		// transform_skip_flag
		139, 139,
		// explicit_rdpcm_flag
		139, 139,
		// explicit_rdpcm_dir_flag
		139, 139,
		// last_sig_coeff_x_prefix
		110, 110, 124, 125, 140, 153, 125, 127, 140, 109, 111, 143, 127, 111,
		79, 108, 123, 63,
		// last_sig_coeff_y_prefix
		110, 110, 124, 125, 140, 153, 125, 127, 140, 109, 111, 143, 127, 111,
		79, 108, 123, 63,
		// coded_sub_block_flag
		91, 171, 134, 141,
		// sig_coeff_flag
		111, 111, 125, 110, 110, 94, 124, 108, 124, 107, 125, 141, 179, 153,
		125, 107, 125, 141, 179, 153, 125, 107, 125, 141, 179, 153, 125, 140,
		139, 182, 182, 152, 136, 152, 136, 153, 136, 139, 111, 136, 139, 111,
		141, 111,
		// coeff_abs_level_greater1_flag
		140, 92, 137, 138, 140, 152, 138, 139, 153, 74, 149, 92, 139, 107,
		122, 152, 140, 179, 166, 182, 140, 227, 122, 197,
		// coeff_abs_level_greater2_flag
		138, 153, 136, 167, 152, 152,
		// log2_res_scale_abs_plus1
		154, 154, 154, 154, 154, 154, 154, 154,
		// res_scale_sign_flag
		154, 154,
		// cu_chroma_qp_offset_flag
		154,
		// cu_chroma_qp_offset_idx
		154,
	},
	{
		// sao_merge_flag
		153,
		// sao_type_idx
		185,
		// split_cu_flag
		107, 139, 126,
		// cu_transquant_bypass_flag
		154,
		// cu_skip_flag
		197, 185, 201,
		// cu_qp_delta_abs
		154, 154, 154,
		// pred_mode_flag
		149,
		// part_mode
		154, 139, 154, 154,
		// prev_intra_luma_pred_flag
		154,
		// intra_chroma_pred_mode
		152, 139,
		// merge_flag
		110,
		// merge_idx
		122,
		// inter_pred_idc
		95, 79, 63, 31, 31,
		// ref_idx_l0
		153, 153,
		// ref_idx_l1
		153, 153,
		// abs_mvd_greater0_flag
		140, 198,
		// abs_mvd_greater1_flag
		140, 198,
		// mvp_lx_flag
		168,
		// rqt_root_cbf
		79,
		// split_transform_flag
		124, 138, 94,
		// cbf_luma
		153, 111,
		// cbf_cb, cbf_cr
		149, 107, 167, 154,
		// transform_skip_flag
		139, 139,
		// explicit_rdpcm_flag
		139, 139,
		// explicit_rdpcm_dir_flag
		139, 139,
		// last_sig_coeff_x_prefix
		125, 110, 94, 110, 95, 79, 125, 111, 110, 78, 110, 111, 111, 95,
		94, 108, 123, 108,
		// last_sig_coeff_y_prefix
		125, 110, 94, 110, 95, 79, 125, 111, 110, 78, 110, 111, 111, 95,
		94, 108, 123, 108,
		// coded_sub_block_flag
		121, 140, 61, 154,
		// sig_coeff_flag
		155, 154, 139, 153, 139, 123, 123, 63, 153, 166, 183, 140, 136, 153,
		154, 166, 183, 140, 136, 153, 154, 166, 183, 140, 136, 153, 154, 170,
		153, 123, 123, 107, 121, 107, 121, 167, 151, 183, 140, 151, 183, 140,
		140, 140,
		// coeff_abs_level_greater1_flag
		154, 196, 196, 167, 154, 152, 167, 182, 182, 134, 149, 136, 153, 121,
		136, 137, 169, 194, 166, 167, 154, 167, 137, 182,
		// coeff_abs_level_greater2_flag
		107, 167, 91, 122, 107, 167,
		// log2_res_scale_abs_plus1
		154, 154, 154, 154, 154, 154, 154, 154,
		// res_scale_sign_flag
		154, 154,
		// cu_chroma_qp_offset_flag
		154,
		// cu_chroma_qp_offset_idx
		154,
	},
	{
		// sao_merge_flag
		153,
		// sao_type_idx
		160,
		// split_cu_flag
		107, 139, 126,
		// cu_transquant_bypass_flag
		154,
		// cu_skip_flag
		197, 185, 201,
		// cu_qp_delta_abs
		154, 154, 154,
		// pred_mode_flag
		134,
		// part_mode
		154, 139, 154, 154,
		// prev_intra_luma_pred_flag
		183,
		// intra_chroma_pred_mode
		152, 139,
		// merge_flag
		154,
		// merge_idx
		137,
		// inter_pred_idc
		95, 79, 63, 31, 31,
		// ref_idx_l0
		153, 153,
		// ref_idx_l1
		153, 153,
		// abs_mvd_greater0_flag
		169, 198,
		// abs_mvd_greater1_flag
		169, 198,
		// mvp_lx_flag
		168,
		// rqt_root_cbf
		79,
		// split_transform_flag
		224, 167, 122,
		// cbf_luma
		153, 111,
		// cbf_cb, cbf_cr
		149, 92, 167, 154,
		// transform_skip_flag
		139, 139,
		// explicit_rdpcm_flag
		139, 139,
		// explicit_rdpcm_dir_flag
		139, 139,
		// last_sig_coeff_x_prefix
		125, 110, 124, 110, 95, 94, 125, 111, 111, 79, 125, 126, 111, 111,
		79, 108, 123, 93,
		// last_sig_coeff_y_prefix
		125, 110, 124, 110, 95, 94, 125, 111, 111, 79, 125, 126, 111, 111,
		79, 108, 123, 93,
		// coded_sub_block_flag
		121, 140, 61, 154,
		// sig_coeff_flag
		170, 154, 139, 153, 139, 123, 123, 63, 124, 166, 183, 140, 136, 153,
		154, 166, 183, 140, 136, 153, 154, 166, 183, 140, 136, 153, 154, 170,
		153, 138, 138, 122, 121, 122, 121, 167, 151, 183, 140, 151, 183, 140,
		140, 140,
		// coeff_abs_level_greater1_flag
		154, 196, 167, 167, 154, 152, 167, 182, 182, 134, 149, 136, 153, 121,
		136, 122, 169, 208, 166, 167, 154, 152, 167, 182,
		// coeff_abs_level_greater2_flag
		107, 167, 91, 107, 107, 167,
		// log2_res_scale_abs_plus1
		154, 154, 154, 154, 154, 154, 154, 154,
		// res_scale_sign_flag
		154, 154,
		// cu_chroma_qp_offset_flag
		154,
		// cu_chroma_qp_offset_idx
		154,
	},
}
