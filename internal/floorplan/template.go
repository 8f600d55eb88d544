package floorplan

// TemplateKind selects which generator variant runs. The three layouts share
// a common SeatDescriptor output, so a template is a tagged variant rather
// than a hierarchy.
type TemplateKind string

const (
	KindTheater TemplateKind = "THEATER"
	KindStadium TemplateKind = "STADIUM"
	KindBanquet TemplateKind = "BANQUET"
)

// Template is the tagged union over the three layout variants. Exactly one
// of the variant pointers must be set, matching Kind.
type Template struct {
	Kind    TemplateKind     `json:"kind" binding:"required,oneof=THEATER STADIUM BANQUET"`
	Theater *TheaterTemplate `json:"theater,omitempty"`
	Stadium *StadiumTemplate `json:"stadium,omitempty"`
	Banquet *BanquetTemplate `json:"banquet,omitempty"`
}

// TheaterTemplate describes a rows-by-columns grid. Seats whose column is a
// multiple of AisleEvery are omitted as aisle gaps; AisleEvery 0 disables
// gaps entirely.
type TheaterTemplate struct {
	Section    string    `json:"section"`
	Rows       int       `json:"rows"`
	Cols       int       `json:"cols"`
	AisleEvery int       `json:"aisle_every"`
	BasePrice  int64     `json:"base_price"`
	SeatClass  string    `json:"seat_class"`
	RowBands   []RowBand `json:"row_bands,omitempty"`
}

// RowBand overrides price/class for an inclusive row-index range. EndRow nil
// means "to the last row". Bands are evaluated in declaration order and a
// later band wins on overlap.
type RowBand struct {
	StartRow  int    `json:"start_row"`
	EndRow    *int   `json:"end_row,omitempty"`
	BasePrice *int64 `json:"base_price,omitempty"`
	SeatClass string `json:"seat_class,omitempty"`
}

// StadiumTemplate describes concentric rings around a center point. Ring
// radius is geometry only; pricing is set per ring.
type StadiumTemplate struct {
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	Rings   []Ring  `json:"rings"`
}

// Ring is one concentric band of seats in a stadium layout
type Ring struct {
	Name           string  `json:"name"`
	Radius         float64 `json:"radius"`
	Sectors        int     `json:"sectors"`
	SeatsPerSector int     `json:"seats_per_sector"`
	BasePrice      int64   `json:"base_price"`
	SeatClass      string  `json:"seat_class"`
}

// BanquetTemplate is an explicit list of round tables with free 2-D positions
type BanquetTemplate struct {
	Section string  `json:"section"`
	Tables  []Table `json:"tables"`
}

// Table is one round banquet table
type Table struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Seats     int     `json:"seats"`
	Radius    float64 `json:"radius"`
	BasePrice int64   `json:"base_price"`
	SeatClass string  `json:"seat_class"`
}

// SeatDescriptor is one generated seat. Coordinates exist for rendering
// only; TemplateRef points back at the ring/row/table that produced the
// seat (e.g. "row:3", "ring:1", "table:7").
type SeatDescriptor struct {
	Section     string  `json:"section"`
	RowLabel    string  `json:"row_label"`
	SeatNumber  int     `json:"seat_number"`
	SeatClass   string  `json:"seat_class"`
	BasePrice   int64   `json:"base_price"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	TemplateRef string  `json:"template_ref"`
}
