package mocks

import (
	"io"

	"github.com/stretchr/testify/mock"
)

type MockImageManager struct {
	mock.Mock
}

func (m *MockImageManager) SaveProfilePicture(file io.Reader, originalName string) (string, error) {
	args := m.Called(file, originalName)
	return args.String(0), args.Error(1)
}
