package pdf

// Column is one column of the line-item table.
type Column struct {
	Key    string
	Weight float64
}

// ItemColumns are the line-item table columns, in order, with their relative
// widths. Header text is resolved through the label catalog by Key.
var ItemColumns = []Column{
	{Key: "col.index", Weight: 15},
	{Key: "col.description", Weight: 45},
	{Key: "col.quantity", Weight: 12},
	{Key: "col.unit", Weight: 15},
	{Key: "col.unit_price", Weight: 20},
	{Key: "col.discount", Weight: 15},
	{Key: "col.subtotal", Weight: 20},
	{Key: "col.tax", Weight: 20},
	{Key: "col.total", Weight: 23},
}

// firstNumericColumn is the position of the quantity column.
const firstNumericColumn = 2

// ColumnAlign is the header alignment of the column at position i.
func ColumnAlign(i int) Align {
	if i >= firstNumericColumn {
		return AlignRight
	}
	return AlignLeft
}

// PlanColumns distributes contentWidth across weights proportionally. The last
// column takes the remainder so the widths always sum to contentWidth.
func PlanColumns(weights []float64, contentWidth float64) []float64 {
	if len(weights) == 0 {
		return nil
	}
	var sum float64
	for _, w := range weights {
		if w > 0 {
			sum += w
		}
	}
	widths := make([]float64, len(weights))
	var used float64
	for i, w := range weights {
		if i == len(weights)-1 {
			widths[i] = contentWidth - used
			break
		}
		switch {
		case sum <= 0:
			widths[i] = contentWidth / float64(len(weights))
		case w > 0:
			widths[i] = w / sum * contentWidth
		}
		used += widths[i]
	}
	return widths
}

func columnWeights(cols []Column) []float64 {
	w := make([]float64, len(cols))
	for i, c := range cols {
		w[i] = c.Weight
	}
	return w
}
