package repository

import (
	"errors"

	"emprunt/domain"
)

var ErrNotFound = errors.New("simulation not found")

type SimulationRepository interface {
	Save(input domain.SimulationInputs, result domain.SimulationResult) (string, error)
	Get(id string) (domain.SimulationResult, error)
}
