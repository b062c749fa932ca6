package models

import "time"

type Cliente struct {
	ID       string    `bson:"_id" json:"id"`
	Nome     string    `bson:"nome" json:"nome" validate:"required"`
	Email    string    `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Telefone string    `bson:"telefone,omitempty" json:"telefone,omitempty"`
	CPF      string    `bson:"cpf,omitempty" json:"cpf,omitempty"`
	Endereco string    `bson:"endereco,omitempty" json:"endereco,omitempty"`
	CriadoEm time.Time `bson:"criadoEm" json:"criadoEm"`
}
