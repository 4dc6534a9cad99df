package models

import "time"

// Wizard step numbers, in declared order
const (
	StepPersonal    = 1
	StepContact     = 2
	StepCredentials = 3
)

// PersonalInput is step 1 of the registration wizard
type PersonalInput struct {
	Nome           string `json:"nome"`
	CPF            string `json:"cpf"`
	DataNascimento string `json:"data_nascimento"`
	Sexo           string `json:"sexo"`
	Escolaridade   string `json:"escolaridade"`
}

// ContactInput is step 2 of the registration wizard
type ContactInput struct {
	CEP            string  `json:"cep"`
	Estado         string  `json:"estado"`
	Municipio      string  `json:"municipio"`
	Bairro         string  `json:"bairro"`
	Logradouro     string  `json:"logradouro"`
	Numero         string  `json:"numero"`
	Complemento    *string `json:"complemento,omitempty"`
	Telefone       string  `json:"telefone,omitempty"`
	Celular        string  `json:"celular"`
	Email          string  `json:"email"`
	ConfirmarEmail string  `json:"confirmar_email"`
}

// CredentialsInput is step 3 of the registration wizard
type CredentialsInput struct {
	Senha          string `json:"senha"`
	ConfirmarSenha string `json:"confirmar_senha"`
}

// RegistrationState is the server-side wizard state, bridged between steps
// under a wizard ID and cleared once the submission is consumed.
type RegistrationState struct {
	ID          string           `json:"id"`
	Step        int              `json:"step"`
	Personal    PersonalInput    `json:"personal"`
	Contact     ContactInput     `json:"contact"`
	Credentials CredentialsInput `json:"credentials"`
	CreatedAt   time.Time        `json:"created_at"`
}

// RegistrationPayload is the normalized payload submitted to the backend:
// formatting characters stripped from CPF/CEP/phones, email lowercased.
type RegistrationPayload struct {
	Nome           string  `json:"nome"`
	CPF            string  `json:"cpf"`
	DataNascimento string  `json:"data_nascimento"`
	Sexo           string  `json:"sexo"`
	Escolaridade   string  `json:"escolaridade"`
	CEP            string  `json:"cep"`
	Estado         string  `json:"estado"`
	Municipio      string  `json:"municipio"`
	Bairro         string  `json:"bairro"`
	Logradouro     string  `json:"logradouro"`
	Numero         string  `json:"numero"`
	Complemento    *string `json:"complemento,omitempty"`
	Telefone       string  `json:"telefone,omitempty"`
	Celular        string  `json:"celular"`
	Email          string  `json:"email"`
	Senha          string  `json:"senha"`
}
