package sweep

import (
	"sort"

	simerrors "github.com/Nadirh/retirement-planning/internal/errors"
)

// DefaultGridStep is the spacing of the default allocation grid
const DefaultGridStep = 10

// DefaultGrid returns 0, 10, ..., 100
func DefaultGrid() []int {
	grid, _ := GridFromStep(DefaultGridStep)
	return grid
}

// GridFromStep returns 0, step, 2*step, ... and always ends at 100
func GridFromStep(step int) ([]int, error) {
	if step < 1 || step > 100 {
		return nil, simerrors.NewValidationError("sweep", "grid_from_step", "grid step must be between 1 and 100").
			WithContext("step", step)
	}

	grid := make([]int, 0, 100/step+2)
	for v := 0; v <= 100; v += step {
		grid = append(grid, v)
	}
	if grid[len(grid)-1] != 100 {
		grid = append(grid, 100)
	}
	return grid, nil
}

// ValidateGrid requires a non-empty, strictly ascending list of percentages
// in [0,100]
func ValidateGrid(grid []int) error {
	if len(grid) == 0 {
		return simerrors.NewValidationError("sweep", "validate_grid", "stock allocation grid is empty")
	}

	v := &simerrors.ValidationErrors{Component: "sweep"}
	for i, pct := range grid {
		if pct < 0 || pct > 100 {
			v.Add("stock allocation %d%% is outside [0,100]", pct)
		}
		if i > 0 && pct <= grid[i-1] {
			v.Add("stock allocation grid must be strictly ascending, got %d after %d", pct, grid[i-1])
		}
	}
	return v.Err("validate_grid")
}

// NormalizeGrid returns a sorted copy of grid without duplicates
func NormalizeGrid(grid []int) []int {
	out := make([]int, len(grid))
	copy(out, grid)
	sort.Ints(out)

	unique := make([]int, 0, len(out))
	for _, v := range out {
		if len(unique) == 0 || v != unique[len(unique)-1] {
			unique = append(unique, v)
		}
	}
	return unique
}
