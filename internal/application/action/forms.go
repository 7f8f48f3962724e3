package action

// SignUpForm 注册表单
type SignUpForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// SignInForm 登录表单
type SignInForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AskResult 问答结果，Answer 为 nil 表示没有可用回答
type AskResult struct {
	Answer *string `json:"answer"`
}
