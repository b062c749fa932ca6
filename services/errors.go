package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrVendaNaoEncontrada   = errors.New("venda não encontrada")
	ErrProdutoNaoEncontrado = errors.New("produto não encontrado")
	ErrParcelaNaoEncontrada = errors.New("parcela não encontrada")
	ErrClienteNaoEncontrado = errors.New("cliente não encontrado")
	ErrValidacao            = errors.New("dados inválidos")
)

// ValidationError lists the offending fields (json names) and the rule each
// one broke. It matches ErrValidacao with errors.Is.
type ValidationError struct {
	Campos map[string]string
}

func (e *ValidationError) Error() string {
	nomes := make([]string, 0, len(e.Campos))
	for campo, regra := range e.Campos {
		nomes = append(nomes, fmt.Sprintf("%s (%s)", campo, regra))
	}
	sort.Strings(nomes)
	return "dados inválidos: " + strings.Join(nomes, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidacao
}
