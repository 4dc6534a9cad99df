package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edital360/portal/internal/models"
)

// memoryStateStore is an in-memory StateStore for tests
type memoryStateStore struct {
	states map[string]models.RegistrationState
}

func newMemoryStateStore() *memoryStateStore {
	return &memoryStateStore{states: map[string]models.RegistrationState{}}
}

func (s *memoryStateStore) Save(ctx context.Context, state *models.RegistrationState, ttl time.Duration) error {
	s.states[state.ID] = *state
	return nil
}

func (s *memoryStateStore) Load(ctx context.Context, id string) (*models.RegistrationState, error) {
	state, ok := s.states[id]
	if !ok {
		return nil, models.ErrWizardNotFound
	}
	return &state, nil
}

func (s *memoryStateStore) Delete(ctx context.Context, id string) error {
	delete(s.states, id)
	return nil
}

// fakeRegistrar records the payload it receives
type fakeRegistrar struct {
	payload models.RegistrationPayload
	result  *models.APIResult
}

func (f *fakeRegistrar) Register(ctx context.Context, payload models.RegistrationPayload) *models.APIResult {
	f.payload = payload
	if f.result != nil {
		return f.result
	}
	return &models.APIResult{Success: true, Message: "created"}
}

func validPersonal() models.PersonalInput {
	return models.PersonalInput{
		Nome:           "Maria da Silva",
		CPF:            "529.982.247-25",
		DataNascimento: "1990-05-10",
		Sexo:           "feminino",
		Escolaridade:   "superior",
	}
}

func validContact() models.ContactInput {
	return models.ContactInput{
		CEP:            "20031-170",
		Estado:         "RJ",
		Municipio:      "Rio de Janeiro",
		Bairro:         "Centro",
		Logradouro:     "Av. Rio Branco",
		Numero:         "156",
		Celular:        "(21) 98765-4321",
		Email:          "Maria@Example.com",
		ConfirmarEmail: "maria@example.com",
	}
}

func validCredentials() models.CredentialsInput {
	return models.CredentialsInput{
		Senha:          "Senha123",
		ConfirmarSenha: "Senha123",
	}
}

func newTestRegistration() (*RegistrationService, *memoryStateStore, *fakeRegistrar) {
	store := newMemoryStateStore()
	backend := &fakeRegistrar{}
	svc := NewRegistrationService(store, backend, time.Hour, nil)
	return svc, store, backend
}

func TestRegistrationService_StartCreatesState(t *testing.T) {
	svc, store, _ := newTestRegistration()

	state, err := svc.Start(context.Background())
	require.NoError(t, err)
	assert.Len(t, state.ID, 32)
	assert.Equal(t, models.StepPersonal, state.Step)
	assert.Contains(t, store.states, state.ID)
}

func TestRegistrationService_StepsAdvanceOnlyWhenValid(t *testing.T) {
	svc, _, _ := newTestRegistration()
	ctx := context.Background()

	state, err := svc.Start(ctx)
	require.NoError(t, err)

	// Invalid personal step does not advance
	bad := validPersonal()
	bad.CPF = "111.111.111-11"
	result, err := svc.SavePersonal(ctx, state.ID, bad)
	require.NoError(t, err)
	require.False(t, result.IsValid)
	assert.Equal(t, "cpf", result.First().Field)

	// Contact step is still gated
	_, err = svc.SaveContact(ctx, state.ID, validContact())
	assert.ErrorIs(t, err, models.ErrStepIncomplete)

	// Valid personal step opens the contact step
	result, err = svc.SavePersonal(ctx, state.ID, validPersonal())
	require.NoError(t, err)
	require.True(t, result.IsValid)

	result, err = svc.SaveContact(ctx, state.ID, validContact())
	require.NoError(t, err)
	assert.True(t, result.IsValid)
}

func TestRegistrationService_CredentialsGatedBehindContact(t *testing.T) {
	svc, _, _ := newTestRegistration()
	ctx := context.Background()

	state, err := svc.Start(ctx)
	require.NoError(t, err)

	_, err = svc.SavePersonal(ctx, state.ID, validPersonal())
	require.NoError(t, err)

	_, err = svc.SaveCredentials(ctx, state.ID, validCredentials())
	assert.ErrorIs(t, err, models.ErrStepIncomplete)
}

func TestRegistrationService_UnknownWizard(t *testing.T) {
	svc, _, _ := newTestRegistration()

	_, err := svc.SavePersonal(context.Background(), "missing", validPersonal())
	assert.ErrorIs(t, err, models.ErrWizardNotFound)
}

func TestRegistrationService_FirstErrorFollowsDeclaredOrder(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(p *models.PersonalInput, c *models.ContactInput)
		firstField string
	}{
		{
			name: "nome before cpf",
			mutate: func(p *models.PersonalInput, c *models.ContactInput) {
				p.Nome = "X"
				p.CPF = "123"
			},
			firstField: "nome",
		},
		{
			name: "cpf before data_nascimento",
			mutate: func(p *models.PersonalInput, c *models.ContactInput) {
				p.CPF = "123"
				p.DataNascimento = "not-a-date"
			},
			firstField: "cpf",
		},
		{
			name: "personal errors precede contact errors",
			mutate: func(p *models.PersonalInput, c *models.ContactInput) {
				p.Sexo = "invalid"
				c.CEP = "abc"
			},
			firstField: "sexo",
		},
		{
			name: "cep before email within contact",
			mutate: func(p *models.PersonalInput, c *models.ContactInput) {
				c.CEP = "abc"
				c.Email = "bad"
			},
			firstField: "cep",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newTestRegistration()
			ctx := context.Background()

			state, err := svc.Start(ctx)
			require.NoError(t, err)

			personal := validPersonal()
			contact := validContact()
			tt.mutate(&personal, &contact)

			// Bypass step gating to exercise the submit-time re-validation
			full := store.states[state.ID]
			full.Step = models.StepCredentials
			full.Personal = personal
			full.Contact = contact
			full.Credentials = validCredentials()
			store.states[state.ID] = full

			_, validation, err := svc.Submit(ctx, state.ID)
			require.NoError(t, err)
			require.NotNil(t, validation)
			require.False(t, validation.IsValid)
			assert.Equal(t, tt.firstField, validation.First().Field)
		})
	}
}

func TestRegistrationService_SubmitNormalizesPayload(t *testing.T) {
	svc, store, backend := newTestRegistration()
	ctx := context.Background()

	state, err := svc.Start(ctx)
	require.NoError(t, err)

	_, err = svc.SavePersonal(ctx, state.ID, validPersonal())
	require.NoError(t, err)
	_, err = svc.SaveContact(ctx, state.ID, validContact())
	require.NoError(t, err)
	_, err = svc.SaveCredentials(ctx, state.ID, validCredentials())
	require.NoError(t, err)

	result, validation, err := svc.Submit(ctx, state.ID)
	require.NoError(t, err)
	require.Nil(t, validation)
	require.True(t, result.Success)

	assert.Equal(t, "52998224725", backend.payload.CPF)
	assert.Equal(t, "20031170", backend.payload.CEP)
	assert.Equal(t, "5521987654321", backend.payload.Celular)
	assert.Equal(t, "maria@example.com", backend.payload.Email)

	// State was consumed
	assert.NotContains(t, store.states, state.ID)
}

func TestRegistrationService_SubmitKeepsStateOnRejection(t *testing.T) {
	svc, store, backend := newTestRegistration()
	backend.result = &models.APIResult{Success: false, Message: "CPF already registered"}
	ctx := context.Background()

	state, err := svc.Start(ctx)
	require.NoError(t, err)

	_, err = svc.SavePersonal(ctx, state.ID, validPersonal())
	require.NoError(t, err)
	_, err = svc.SaveContact(ctx, state.ID, validContact())
	require.NoError(t, err)
	_, err = svc.SaveCredentials(ctx, state.ID, validCredentials())
	require.NoError(t, err)

	result, _, err := svc.Submit(ctx, state.ID)
	require.NoError(t, err)
	require.False(t, result.Success)
	assert.Equal(t, "CPF already registered", result.Message)
	assert.Contains(t, store.states, state.ID)
}

func TestRegistrationService_EmailConfirmationMismatch(t *testing.T) {
	svc, _, _ := newTestRegistration()
	ctx := context.Background()

	state, err := svc.Start(ctx)
	require.NoError(t, err)

	_, err = svc.SavePersonal(ctx, state.ID, validPersonal())
	require.NoError(t, err)

	contact := validContact()
	contact.ConfirmarEmail = "other@example.com"
	result, err := svc.SaveContact(ctx, state.ID, contact)
	require.NoError(t, err)
	require.False(t, result.IsValid)
	assert.Equal(t, "confirmar_email", result.First().Field)
}
