package booking

// Direction is a tour destination offered to the user.
type Direction struct {
	Key  string `yaml:"key" json:"key"`
	Name string `yaml:"name" json:"name"`
}

// TourType is a tour category with a fixed price in tenge.
type TourType struct {
	Key   string `yaml:"key" json:"key"`
	Name  string `yaml:"name" json:"name"`
	Price int    `yaml:"price" json:"price"`
}

// Catalog is the published set of choices the flow offers. Slices keep
// the menu order stable.
type Catalog struct {
	Directions []Direction `yaml:"directions" json:"directions"`
	TourTypes  []TourType  `yaml:"tour_types" json:"tour_types"`
	Dates      []string    `yaml:"dates" json:"dates"`
}

// Direction looks up a destination by key.
func (c Catalog) Direction(key string) (Direction, bool) {
	for _, d := range c.Directions {
		if d.Key == key {
			return d, true
		}
	}
	return Direction{}, false
}

// TourType looks up a tour category by key.
func (c Catalog) TourType(key string) (TourType, bool) {
	for _, t := range c.TourTypes {
		if t.Key == key {
			return t, true
		}
	}
	return TourType{}, false
}

// HasDate reports whether the date is in the published set.
func (c Catalog) HasDate(date string) bool {
	for _, d := range c.Dates {
		if d == date {
			return true
		}
	}
	return false
}

// Empty reports whether the catalog has no usable entries.
func (c Catalog) Empty() bool {
	return len(c.Directions) == 0 && len(c.TourTypes) == 0 && len(c.Dates) == 0
}

// DefaultCatalog returns the built-in offer used when the config file
// does not override it.
func DefaultCatalog() Catalog {
	return Catalog{
		Directions: []Direction{
			{Key: "charyn", Name: "Чарынский каньон"},
			{Key: "kolsai", Name: "Кольсайские озёра"},
			{Key: "altyn_emel", Name: "Алтын-Эмель"},
			{Key: "big_almaty", Name: "Большое Алматинское озеро"},
		},
		TourTypes: []TourType{
			{Key: "interactive", Name: "Интерактивный тур", Price: 60000},
			{Key: "photo", Name: "Фототур", Price: 35000},
			{Key: "historical", Name: "Исторический тур", Price: 30000},
			{Key: "regular", Name: "Обычный тур", Price: 25000},
		},
		Dates: []string{
			"12 января",
			"19 января",
			"26 января",
			"2 февраля",
			"9 февраля",
			"16 февраля",
		},
	}
}
