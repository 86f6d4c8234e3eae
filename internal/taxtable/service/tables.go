package service

import "github.com/smallbiznis/paydocs/internal/taxtable/domain"

// Statutory figures for the supported years. Dollar figures are stored
// in cents. Sources: IRS Rev. Proc. 2023-34 / 2024-40, SSA fact sheets,
// state revenue department schedules.

type yearTables struct {
	federal           map[domain.FilingStatus]domain.BracketSchedule
	standardDeduction map[domain.FilingStatus]int64
	allowanceCents    int64
	states            map[domain.StateCode]domain.BracketSchedule
	localities        map[domain.LocalityCode]domain.BracketSchedule
	fica              domain.FICARates
}

var tablesByYear = map[int]yearTables{
	2024: {
		federal: map[domain.FilingStatus]domain.BracketSchedule{
			domain.FilingStatusSingle: {
				{FloorCents: 0, CeilingCents: 1_160_000, Rate: 0.10},
				{FloorCents: 1_160_000, CeilingCents: 4_715_000, Rate: 0.12},
				{FloorCents: 4_715_000, CeilingCents: 10_052_500, Rate: 0.22},
				{FloorCents: 10_052_500, CeilingCents: 19_195_000, Rate: 0.24},
				{FloorCents: 19_195_000, CeilingCents: 24_372_500, Rate: 0.32},
				{FloorCents: 24_372_500, CeilingCents: 60_935_000, Rate: 0.35},
				{FloorCents: 60_935_000, CeilingCents: 0, Rate: 0.37},
			},
			domain.FilingStatusMarriedJoint: {
				{FloorCents: 0, CeilingCents: 2_320_000, Rate: 0.10},
				{FloorCents: 2_320_000, CeilingCents: 9_430_000, Rate: 0.12},
				{FloorCents: 9_430_000, CeilingCents: 20_105_000, Rate: 0.22},
				{FloorCents: 20_105_000, CeilingCents: 38_390_000, Rate: 0.24},
				{FloorCents: 38_390_000, CeilingCents: 48_745_000, Rate: 0.32},
				{FloorCents: 48_745_000, CeilingCents: 73_120_000, Rate: 0.35},
				{FloorCents: 73_120_000, CeilingCents: 0, Rate: 0.37},
			},
			domain.FilingStatusMarriedSeparate: {
				{FloorCents: 0, CeilingCents: 1_160_000, Rate: 0.10},
				{FloorCents: 1_160_000, CeilingCents: 4_715_000, Rate: 0.12},
				{FloorCents: 4_715_000, CeilingCents: 10_052_500, Rate: 0.22},
				{FloorCents: 10_052_500, CeilingCents: 19_195_000, Rate: 0.24},
				{FloorCents: 19_195_000, CeilingCents: 24_372_500, Rate: 0.32},
				{FloorCents: 24_372_500, CeilingCents: 36_560_000, Rate: 0.35},
				{FloorCents: 36_560_000, CeilingCents: 0, Rate: 0.37},
			},
			domain.FilingStatusHeadOfHousehold: {
				{FloorCents: 0, CeilingCents: 1_655_000, Rate: 0.10},
				{FloorCents: 1_655_000, CeilingCents: 6_310_000, Rate: 0.12},
				{FloorCents: 6_310_000, CeilingCents: 10_050_000, Rate: 0.22},
				{FloorCents: 10_050_000, CeilingCents: 19_195_000, Rate: 0.24},
				{FloorCents: 19_195_000, CeilingCents: 24_370_000, Rate: 0.32},
				{FloorCents: 24_370_000, CeilingCents: 60_935_000, Rate: 0.35},
				{FloorCents: 60_935_000, CeilingCents: 0, Rate: 0.37},
			},
		},
		standardDeduction: map[domain.FilingStatus]int64{
			domain.FilingStatusSingle:          1_460_000,
			domain.FilingStatusMarriedJoint:    2_920_000,
			domain.FilingStatusMarriedSeparate: 1_460_000,
			domain.FilingStatusHeadOfHousehold: 2_190_000,
		},
		allowanceCents: 430_000,
		states: map[domain.StateCode]domain.BracketSchedule{
			domain.StateCA: {
				{FloorCents: 0, CeilingCents: 1_041_200, Rate: 0.01},
				{FloorCents: 1_041_200, CeilingCents: 2_468_400, Rate: 0.02},
				{FloorCents: 2_468_400, CeilingCents: 3_895_900, Rate: 0.04},
				{FloorCents: 3_895_900, CeilingCents: 5_408_100, Rate: 0.06},
				{FloorCents: 5_408_100, CeilingCents: 6_835_000, Rate: 0.08},
				{FloorCents: 6_835_000, CeilingCents: 34_913_700, Rate: 0.093},
				{FloorCents: 34_913_700, CeilingCents: 41_896_100, Rate: 0.103},
				{FloorCents: 41_896_100, CeilingCents: 69_827_100, Rate: 0.113},
				{FloorCents: 69_827_100, CeilingCents: 0, Rate: 0.123},
			},
			domain.StateNY: {
				{FloorCents: 0, CeilingCents: 850_000, Rate: 0.04},
				{FloorCents: 850_000, CeilingCents: 1_170_000, Rate: 0.045},
				{FloorCents: 1_170_000, CeilingCents: 1_390_000, Rate: 0.0525},
				{FloorCents: 1_390_000, CeilingCents: 8_065_000, Rate: 0.055},
				{FloorCents: 8_065_000, CeilingCents: 21_540_000, Rate: 0.06},
				{FloorCents: 21_540_000, CeilingCents: 107_755_000, Rate: 0.0685},
				{FloorCents: 107_755_000, CeilingCents: 0, Rate: 0.0965},
			},
			domain.StatePA: {
				{FloorCents: 0, CeilingCents: 0, Rate: 0.0307},
			},
			// No state income tax.
			domain.StateTX: {},
			domain.StateFL: {},
		},
		localities: map[domain.LocalityCode]domain.BracketSchedule{
			domain.LocalityNYC: {
				{FloorCents: 0, CeilingCents: 1_200_000, Rate: 0.03078},
				{FloorCents: 1_200_000, CeilingCents: 2_500_000, Rate: 0.03762},
				{FloorCents: 2_500_000, CeilingCents: 5_000_000, Rate: 0.03819},
				{FloorCents: 5_000_000, CeilingCents: 0, Rate: 0.03876},
			},
		},
		fica: domain.FICARates{
			SocialSecurityRate:           0.062,
			SocialSecurityWageBaseCents:  16_860_000,
			MedicareRate:                 0.0145,
			AdditionalMedicareRate:       0.009,
			AdditionalMedicareFloorCents: 20_000_000,
		},
	},
	2025: {
		federal: map[domain.FilingStatus]domain.BracketSchedule{
			domain.FilingStatusSingle: {
				{FloorCents: 0, CeilingCents: 1_192_500, Rate: 0.10},
				{FloorCents: 1_192_500, CeilingCents: 4_847_500, Rate: 0.12},
				{FloorCents: 4_847_500, CeilingCents: 10_335_000, Rate: 0.22},
				{FloorCents: 10_335_000, CeilingCents: 19_730_000, Rate: 0.24},
				{FloorCents: 19_730_000, CeilingCents: 25_052_500, Rate: 0.32},
				{FloorCents: 25_052_500, CeilingCents: 62_635_000, Rate: 0.35},
				{FloorCents: 62_635_000, CeilingCents: 0, Rate: 0.37},
			},
			domain.FilingStatusMarriedJoint: {
				{FloorCents: 0, CeilingCents: 2_385_000, Rate: 0.10},
				{FloorCents: 2_385_000, CeilingCents: 9_695_000, Rate: 0.12},
				{FloorCents: 9_695_000, CeilingCents: 20_670_000, Rate: 0.22},
				{FloorCents: 20_670_000, CeilingCents: 39_460_000, Rate: 0.24},
				{FloorCents: 39_460_000, CeilingCents: 50_105_000, Rate: 0.32},
				{FloorCents: 50_105_000, CeilingCents: 75_160_000, Rate: 0.35},
				{FloorCents: 75_160_000, CeilingCents: 0, Rate: 0.37},
			},
			domain.FilingStatusMarriedSeparate: {
				{FloorCents: 0, CeilingCents: 1_192_500, Rate: 0.10},
				{FloorCents: 1_192_500, CeilingCents: 4_847_500, Rate: 0.12},
				{FloorCents: 4_847_500, CeilingCents: 10_335_000, Rate: 0.22},
				{FloorCents: 10_335_000, CeilingCents: 19_730_000, Rate: 0.24},
				{FloorCents: 19_730_000, CeilingCents: 25_052_500, Rate: 0.32},
				{FloorCents: 25_052_500, CeilingCents: 37_580_000, Rate: 0.35},
				{FloorCents: 37_580_000, CeilingCents: 0, Rate: 0.37},
			},
			domain.FilingStatusHeadOfHousehold: {
				{FloorCents: 0, CeilingCents: 1_700_000, Rate: 0.10},
				{FloorCents: 1_700_000, CeilingCents: 6_485_000, Rate: 0.12},
				{FloorCents: 6_485_000, CeilingCents: 10_335_000, Rate: 0.22},
				{FloorCents: 10_335_000, CeilingCents: 19_730_000, Rate: 0.24},
				{FloorCents: 19_730_000, CeilingCents: 25_050_000, Rate: 0.32},
				{FloorCents: 25_050_000, CeilingCents: 62_635_000, Rate: 0.35},
				{FloorCents: 62_635_000, CeilingCents: 0, Rate: 0.37},
			},
		},
		standardDeduction: map[domain.FilingStatus]int64{
			domain.FilingStatusSingle:          1_500_000,
			domain.FilingStatusMarriedJoint:    3_000_000,
			domain.FilingStatusMarriedSeparate: 1_500_000,
			domain.FilingStatusHeadOfHousehold: 2_250_000,
		},
		allowanceCents: 430_000,
		states: map[domain.StateCode]domain.BracketSchedule{
			domain.StateCA: {
				{FloorCents: 0, CeilingCents: 1_041_200, Rate: 0.01},
				{FloorCents: 1_041_200, CeilingCents: 2_468_400, Rate: 0.02},
				{FloorCents: 2_468_400, CeilingCents: 3_895_900, Rate: 0.04},
				{FloorCents: 3_895_900, CeilingCents: 5_408_100, Rate: 0.06},
				{FloorCents: 5_408_100, CeilingCents: 6_835_000, Rate: 0.08},
				{FloorCents: 6_835_000, CeilingCents: 34_913_700, Rate: 0.093},
				{FloorCents: 34_913_700, CeilingCents: 41_896_100, Rate: 0.103},
				{FloorCents: 41_896_100, CeilingCents: 69_827_100, Rate: 0.113},
				{FloorCents: 69_827_100, CeilingCents: 0, Rate: 0.123},
			},
			domain.StateNY: {
				{FloorCents: 0, CeilingCents: 850_000, Rate: 0.04},
				{FloorCents: 850_000, CeilingCents: 1_170_000, Rate: 0.045},
				{FloorCents: 1_170_000, CeilingCents: 1_390_000, Rate: 0.0525},
				{FloorCents: 1_390_000, CeilingCents: 8_065_000, Rate: 0.055},
				{FloorCents: 8_065_000, CeilingCents: 21_540_000, Rate: 0.06},
				{FloorCents: 21_540_000, CeilingCents: 107_755_000, Rate: 0.0685},
				{FloorCents: 107_755_000, CeilingCents: 0, Rate: 0.0965},
			},
			domain.StatePA: {
				{FloorCents: 0, CeilingCents: 0, Rate: 0.0307},
			},
			domain.StateTX: {},
			domain.StateFL: {},
		},
		localities: map[domain.LocalityCode]domain.BracketSchedule{
			domain.LocalityNYC: {
				{FloorCents: 0, CeilingCents: 1_200_000, Rate: 0.03078},
				{FloorCents: 1_200_000, CeilingCents: 2_500_000, Rate: 0.03762},
				{FloorCents: 2_500_000, CeilingCents: 5_000_000, Rate: 0.03819},
				{FloorCents: 5_000_000, CeilingCents: 0, Rate: 0.03876},
			},
		},
		fica: domain.FICARates{
			SocialSecurityRate:           0.062,
			SocialSecurityWageBaseCents:  17_610_000,
			MedicareRate:                 0.0145,
			AdditionalMedicareRate:       0.009,
			AdditionalMedicareFloorCents: 20_000_000,
		},
	},
}
