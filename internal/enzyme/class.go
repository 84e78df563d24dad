package enzyme

// Class holds the per-kind kinetic constants shared by every enzyme of that kind.
type Class struct {
	// MaxInputs is the number of substrates drawn per reaction. Zero means the
	// enzyme acts on the tile pool directly.
	MaxInputs  int
	BaseRate   float64
	EnergyCost float64
}

var classes = map[string]Class{
	"anabolase":    {MaxInputs: 3, BaseRate: 0.85, EnergyCost: 0.1},
	"catabolase":   {MaxInputs: 1, BaseRate: 0.9, EnergyCost: 0.05},
	"transportase": {MaxInputs: 0, BaseRate: 0.85, EnergyCost: 0.02},
	"ligase":       {MaxInputs: 3, BaseRate: 0.6, EnergyCost: 1.0},
	"hydrolase":    {MaxInputs: 1, BaseRate: 0.8, EnergyCost: 0.2},
	"isomerase":    {MaxInputs: 1, BaseRate: 0.9, EnergyCost: 0.1},
}

// ClassFor looks up the class table entry for k.
func ClassFor(k Kind) (Class, bool) {
	if k == nil {
		return Class{}, false
	}
	c, ok := classes[k.Name()]
	return c, ok
}
