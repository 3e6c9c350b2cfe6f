package assumption

// CostBasisKind tags which cost representation a rate was resolved from.
type CostBasisKind string

const (
	CostBasisDirect   CostBasisKind = "direct"
	CostBasisItemized CostBasisKind = "itemized"
)

// CostBasis is one of DirectRate or ItemizedCosts.
type CostBasis interface {
	Kind() CostBasisKind
	// PerMW resolves the basis to a rate per MW of capacity.
	PerMW(capacityMW float64) float64
}

// DirectRate is a cost given straight as $/MW (capex) or $/MW-year (opex).
type DirectRate struct {
	Rate float64
}

func (DirectRate) Kind() CostBasisKind { return CostBasisDirect }

func (d DirectRate) PerMW(float64) float64 { return d.Rate }

// ItemizedCosts is a list of budget lines summed and spread over capacity.
// With ApplyMargin each line is grossed up by its own margin, falling back
// to GlobalMarginPct.
type ItemizedCosts struct {
	Items           []CostItem
	GlobalMarginPct float64
	ApplyMargin     bool
}

func (ItemizedCosts) Kind() CostBasisKind { return CostBasisItemized }

// Total is Σ amount × (1 + margin/100), or the plain sum without margins.
func (c ItemizedCosts) Total() float64 {
	var total float64
	for _, it := range c.Items {
		if !c.ApplyMargin {
			total += it.Amount
			continue
		}
		margin := c.GlobalMarginPct
		if it.MarginPct != nil {
			margin = *it.MarginPct
		}
		total += it.Amount * (1 + margin/100)
	}
	return total
}

func (c ItemizedCosts) PerMW(capacityMW float64) float64 {
	if capacityMW <= 0 {
		return 0
	}
	return c.Total() / capacityMW
}
