package entity

// SettingKey enumerates the admin-editable system settings. Business logic
// receives resolved values from the settings service and never reads the
// store directly.
type SettingKey string

const (
	SettingPointValue        SettingKey = "point_value"
	SettingRegistrationBonus SettingKey = "registration_miles_bonus"
	SettingReferralReward    SettingKey = "referral_reward"
	SettingReferralDiscount  SettingKey = "referral_discount"
)

type SystemSetting struct {
	Key   SettingKey `db:"key"`
	Value string     `db:"value"`
}
