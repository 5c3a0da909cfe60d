// Package menu holds the static burger-type catalogue and the base
// ingredient list every lane stocks a dispenser for. This is configuration
// data, not engine behavior: the engine consumes it but never mutates it.
package menu

import "golang.org/x/xerrors"

// Size limits mirrored from the original system's wire constants.
const (
	MaxIngredientNameLen = 30
	MaxBurgerNameLen     = 50
	MaxRecipeLen         = 10
)

// BurgerType describes one entry in the menu: its name, the ordered
// ingredient list that forms its recipe, and its price.
type BurgerType struct {
	Name        string
	Ingredients []string
	Price       float64
}

// Catalogue is the fixed, ordered list of burger types the plant can
// prepare. Index into Catalogue is the "kind" referenced by order.Order.
var Catalogue = []BurgerType{
	{
		Name:        "Clasica",
		Ingredients: []string{"pan_inferior", "carne", "lechuga", "tomate", "pan_superior"},
		Price:       8.50,
	},
	{
		Name:        "Cheeseburger",
		Ingredients: []string{"pan_inferior", "carne", "queso", "lechuga", "tomate", "pan_superior"},
		Price:       9.25,
	},
	{
		Name:        "BBQ Bacon",
		Ingredients: []string{"pan_inferior", "carne", "bacon", "queso", "cebolla", "salsa_bbq", "pan_superior"},
		Price:       11.75,
	},
	{
		Name:        "Vegetariana",
		Ingredients: []string{"pan_inferior", "vegetal", "lechuga", "tomate", "aguacate", "mayonesa", "pan_superior"},
		Price:       10.25,
	},
	{
		Name:        "Deluxe",
		Ingredients: []string{"pan_inferior", "carne", "queso", "bacon", "lechuga", "tomate", "cebolla", "mayonesa", "pan_superior"},
		Price:       13.50,
	},
	{
		Name:        "Spicy Mexican",
		Ingredients: []string{"pan_inferior", "carne", "queso", "jalapenos", "tomate", "cebolla", "salsa_picante", "pan_superior"},
		Price:       12.00,
	},
}

// BaseIngredients lists every ingredient kind any lane may need to
// dispense. Every lane stocks exactly one dispenser per entry here,
// regardless of which burger types it ends up preparing.
var BaseIngredients = []string{
	"pan_inferior", "pan_superior", "carne", "queso", "tomate",
	"lechuga", "cebolla", "bacon", "mayonesa", "jalapenos",
	"aguacate", "vegetal", "salsa_bbq", "salsa_picante", "pepinillos",
}

// Recipe returns a deep copy of the ingredient list for the burger type at
// kind, so callers can freely mutate the result without aliasing Catalogue.
func Recipe(kind int) ([]string, error) {
	if kind < 0 || kind >= len(Catalogue) {
		return nil, xerrors.Errorf("menu: kind %d out of range [0,%d)", kind, len(Catalogue))
	}
	recipe := make([]string, len(Catalogue[kind].Ingredients))
	copy(recipe, Catalogue[kind].Ingredients)
	return recipe, nil
}

// Name returns the burger name for kind.
func Name(kind int) (string, error) {
	if kind < 0 || kind >= len(Catalogue) {
		return "", xerrors.Errorf("menu: kind %d out of range [0,%d)", kind, len(Catalogue))
	}
	return Catalogue[kind].Name, nil
}
