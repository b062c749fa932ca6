package models

type User struct {
	ID       string `bson:"_id" json:"id"`
	Email    string `bson:"email" json:"email"`
	Password string `bson:"password" json:"password,omitempty"`
	Username string `bson:"username" json:"username"`
	Theme    string `bson:"theme,omitempty" json:"theme,omitempty"`
	Language string `bson:"language,omitempty" json:"language,omitempty"`
}
