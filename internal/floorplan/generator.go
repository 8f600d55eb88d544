package floorplan

import (
	"fmt"
	"math"
)

// Validation errors returned by Generate. Empty layouts (zero rows, zero
// rings, zero tables) are not errors here: the generator returns an empty
// list and callers decide whether that is acceptable.
var (
	ErrUnknownKind     = fmt.Errorf("unknown template kind")
	ErrVariantMismatch = fmt.Errorf("template variant does not match kind")
	ErrRadiusOrder     = fmt.Errorf("ring radius must strictly increase with distance from center")
	ErrNegativeParam   = fmt.Errorf("template parameter must not be negative")
)

// Generate produces the ordered seat list for a template. It is pure and
// deterministic: the same template always yields the same descriptors in the
// same order.
func Generate(t Template) ([]SeatDescriptor, error) {
	switch t.Kind {
	case KindTheater:
		if t.Theater == nil {
			return nil, fmt.Errorf("%w: %s", ErrVariantMismatch, t.Kind)
		}
		return generateTheater(*t.Theater)
	case KindStadium:
		if t.Stadium == nil {
			return nil, fmt.Errorf("%w: %s", ErrVariantMismatch, t.Kind)
		}
		return generateStadium(*t.Stadium)
	case KindBanquet:
		if t.Banquet == nil {
			return nil, fmt.Errorf("%w: %s", ErrVariantMismatch, t.Kind)
		}
		return generateBanquet(*t.Banquet)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, t.Kind)
	}
}

// theater seats sit on a 40pt grid like the observed editor output
const theaterGridPitch = 40.0

func generateTheater(t TheaterTemplate) ([]SeatDescriptor, error) {
	if t.Rows < 0 || t.Cols < 0 || t.AisleEvery < 0 {
		return nil, fmt.Errorf("%w: rows=%d cols=%d aisle_every=%d", ErrNegativeParam, t.Rows, t.Cols, t.AisleEvery)
	}

	section := t.Section
	if section == "" {
		section = "Theater"
	}
	class := t.SeatClass
	if class == "" {
		class = "STANDARD"
	}

	var seats []SeatDescriptor
	for r := 0; r < t.Rows; r++ {
		price, rowClass := resolveRowBand(t.RowBands, r, t.BasePrice, class)
		label := rowLabel(r)
		for c := 1; c <= t.Cols; c++ {
			if t.AisleEvery > 0 && c%t.AisleEvery == 0 {
				continue // aisle gap
			}
			seats = append(seats, SeatDescriptor{
				Section:     section,
				RowLabel:    label,
				SeatNumber:  c,
				SeatClass:   rowClass,
				BasePrice:   price,
				X:           float64(c) * theaterGridPitch,
				Y:           float64(r) * theaterGridPitch,
				TemplateRef: fmt.Sprintf("row:%d", r),
			})
		}
	}
	return seats, nil
}

// resolveRowBand applies the bands in declaration order; the last matching
// band wins, so later declarations override earlier ones on overlap.
func resolveRowBand(bands []RowBand, rowIndex int, defaultPrice int64, defaultClass string) (int64, string) {
	price := defaultPrice
	class := defaultClass
	for _, band := range bands {
		if rowIndex < band.StartRow {
			continue
		}
		if band.EndRow != nil && rowIndex > *band.EndRow {
			continue
		}
		if band.BasePrice != nil {
			price = *band.BasePrice
		}
		if band.SeatClass != "" {
			class = band.SeatClass
		}
	}
	return price, class
}

// rowLabel maps a zero-based row index to "A".."Z", then "A1", "B1", ...
func rowLabel(rowIndex int) string {
	letter := string(rune('A' + rowIndex%26))
	if rowIndex >= 26 {
		return fmt.Sprintf("%s%d", letter, rowIndex/26)
	}
	return letter
}

func generateStadium(t StadiumTemplate) ([]SeatDescriptor, error) {
	prevRadius := math.Inf(-1)
	for i, ring := range t.Rings {
		if ring.Sectors < 0 || ring.SeatsPerSector < 0 {
			return nil, fmt.Errorf("%w: ring %d sectors=%d seats_per_sector=%d",
				ErrNegativeParam, i, ring.Sectors, ring.SeatsPerSector)
		}
		if ring.Radius <= prevRadius {
			return nil, fmt.Errorf("%w: ring %d radius %.1f", ErrRadiusOrder, i, ring.Radius)
		}
		prevRadius = ring.Radius
	}

	var seats []SeatDescriptor
	for ri, ring := range t.Rings {
		total := ring.Sectors * ring.SeatsPerSector
		if total == 0 {
			continue
		}
		section := ring.Name
		if section == "" {
			section = fmt.Sprintf("Ring %d", ri+1)
		}
		class := ring.SeatClass
		if class == "" {
			class = "STANDARD"
		}
		label := fmt.Sprintf("R%d", ri+1)
		for s := 0; s < total; s++ {
			angle := 2 * math.Pi * float64(s) / float64(total)
			seats = append(seats, SeatDescriptor{
				Section:     section,
				RowLabel:    label,
				SeatNumber:  s + 1,
				SeatClass:   class,
				BasePrice:   ring.BasePrice,
				X:           t.CenterX + ring.Radius*math.Cos(angle),
				Y:           t.CenterY + ring.Radius*math.Sin(angle),
				TemplateRef: fmt.Sprintf("ring:%d", ri),
			})
		}
	}
	return seats, nil
}

func generateBanquet(t BanquetTemplate) ([]SeatDescriptor, error) {
	section := t.Section
	if section == "" {
		section = "Banquet"
	}

	var seats []SeatDescriptor
	for ti, table := range t.Tables {
		if table.Seats < 0 {
			return nil, fmt.Errorf("%w: table %d seats=%d", ErrNegativeParam, ti, table.Seats)
		}
		if table.Seats == 0 {
			continue
		}
		class := table.SeatClass
		if class == "" {
			class = "STANDARD"
		}
		label := fmt.Sprintf("T%d", ti+1)
		for s := 0; s < table.Seats; s++ {
			angle := 2 * math.Pi * float64(s) / float64(table.Seats)
			seats = append(seats, SeatDescriptor{
				Section:     section,
				RowLabel:    label,
				SeatNumber:  s + 1,
				SeatClass:   class,
				BasePrice:   table.BasePrice,
				X:           table.X + table.Radius*math.Cos(angle),
				Y:           table.Y + table.Radius*math.Sin(angle),
				TemplateRef: fmt.Sprintf("table:%d", ti),
			})
		}
	}
	return seats, nil
}
