package entity

// ContactPurpose 联系目的
type ContactPurpose string

const (
	ContactPurposeSupport     ContactPurpose = "Support"
	ContactPurposeFeedback    ContactPurpose = "Feedback"
	ContactPurposeResearch    ContactPurpose = "Research"
	ContactPurposePartnership ContactPurpose = "Partnership"
)

// ContactPurposes 返回全部合法的联系目的，顺序与表单选项一致
func ContactPurposes() []ContactPurpose {
	return []ContactPurpose{
		ContactPurposeSupport,
		ContactPurposeFeedback,
		ContactPurposeResearch,
		ContactPurposePartnership,
	}
}

// ContactMessage 联系表单内容
type ContactMessage struct {
	Name    string         `json:"name" mapstructure:"name" validate:"required,min=2"`
	Email   string         `json:"email" mapstructure:"email" validate:"required,email"`
	Purpose ContactPurpose `json:"purpose" mapstructure:"purpose" validate:"required,oneof=Support Feedback Research Partnership"`
	Message string         `json:"message" mapstructure:"message" validate:"required,min=10,max=500"`
}
