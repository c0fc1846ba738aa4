package mocks

import "github.com/stretchr/testify/mock"

type MockMailManager struct {
	mock.Mock
}

func (m *MockMailManager) SendPasswordResetMail(email, username, token string) error {
	args := m.Called(email, username, token)
	return args.Error(0)
}
