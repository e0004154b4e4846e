package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsManager(t *testing.T) {
	assert.True(t, IsManager("Gestor"))
	assert.True(t, IsManager("Gestor de Projetos"))
	assert.True(t, IsManager("Gestor Comercial"))
	assert.False(t, IsManager("Desenvolvedor"))
	assert.False(t, IsManager("Designer"))
	assert.False(t, IsManager(""))
}
