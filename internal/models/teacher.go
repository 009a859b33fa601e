package models

// Teacher is a user with the teacher role, managed through the users collection.
type Teacher = User

// TeacherInput is the create payload; the client adds user_type "teacher".
type TeacherInput struct {
	Name                 string `json:"name" validate:"required"`
	Email                string `json:"email" validate:"required,loose_email"`
	Password             string `json:"password" validate:"required,min=6"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
	SchoolID             string `json:"school_id" validate:"required"`
	Address              string `json:"address" validate:"required"`
	Phone                string `json:"phone,omitempty"`
}

// TeacherUpdate is a partial update.
type TeacherUpdate = UpdateUserInput
