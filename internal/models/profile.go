package models

// Endereco is the address block of a user profile
type Endereco struct {
	CEP         string  `json:"cep"`
	Estado      string  `json:"estado"`
	Municipio   string  `json:"municipio"`
	Bairro      string  `json:"bairro"`
	Logradouro  string  `json:"logradouro"`
	Numero      string  `json:"numero"`
	Complemento *string `json:"complemento,omitempty"`
}

// UserProfile is the citizen profile owned by the concursos backend.
// CPF, name and birth date are server-enforced read-only after registration.
type UserProfile struct {
	CPF            string   `json:"cpf"`
	Nome           string   `json:"nome"`
	DataNascimento string   `json:"data_nascimento"`
	Sexo           string   `json:"sexo"`
	Escolaridade   string   `json:"escolaridade"`
	Endereco       Endereco `json:"endereco"`
	Telefone       string   `json:"telefone,omitempty"`
	Celular        string   `json:"celular"`
	Email          string   `json:"email"`
}

// ProfileUpdateInput carries only the fields the backend allows a citizen to
// change; the handler never forwards read-only fields.
type ProfileUpdateInput struct {
	Escolaridade string   `json:"escolaridade,omitempty"`
	Endereco     Endereco `json:"endereco"`
	Telefone     string   `json:"telefone,omitempty"`
	Celular      string   `json:"celular"`
	Email        string   `json:"email"`
}
