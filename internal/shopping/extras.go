package shopping

import (
	"strings"
	"time"

	"github.com/fdg312/meal-planner/internal/catalog"
	"github.com/fdg312/meal-planner/internal/validation"
)

// Extra is a manually added shopping line that no recipe produced.
type Extra struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Quantity  float64   `json:"quantity"`
	Unit      string    `json:"unit"`
	Category  string    `json:"category"`
	Checked   bool      `json:"checked"`
	CreatedAt time.Time `json:"created_at"`
}

// Key is the check-mark key of the extra.
func (e Extra) Key() string {
	return "extra:" + e.ID
}

// AddExtraRequest is the request body for POST /v1/shopping/items.
type AddExtraRequest struct {
	Name     string  `json:"name" validate:"required,max=80"`
	Quantity float64 `json:"quantity" validate:"gte=0,lte=10000"`
	Unit     string  `json:"unit" validate:"max=20"`
	Category string  `json:"category" validate:"omitempty,oneof=Meat Vegetables Fruits Grains Dairy Other"`
}

// Validate validates the request.
func (r *AddExtraRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return validation.Struct(r)
}

// NewExtra normalises a validated request into an Extra.
func NewExtra(req AddExtraRequest, id string, now time.Time) Extra {
	e := Extra{
		ID:        id,
		Name:      req.Name,
		Quantity:  req.Quantity,
		Unit:      req.Unit,
		Category:  req.Category,
		CreatedAt: now.UTC(),
	}
	if e.Quantity <= 0 {
		e.Quantity = 1
	}
	if e.Unit == "" {
		e.Unit = DefaultUnit
	}
	if e.Category == "" {
		e.Category = catalog.CategoryFor(e.Name)
	}
	return e
}

// ApplyExtras joins check marks onto extras.
func ApplyExtras(extras []Extra, checked map[string]bool) []Extra {
	out := make([]Extra, len(extras))
	for i, e := range extras {
		e.Checked = checked[e.Key()]
		out[i] = e
	}
	return out
}

// RemoveExtra drops the extra with id; found=false when absent.
func RemoveExtra(extras []Extra, id string) ([]Extra, bool) {
	out := make([]Extra, 0, len(extras))
	found := false
	for _, e := range extras {
		if e.ID == id {
			found = true
			continue
		}
		out = append(out, e)
	}
	return out, found
}
