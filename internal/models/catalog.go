package models

// ServiceItem is one bookable service from the static menu. Price and
// Duration are display strings, the engine never does arithmetic on them.
type ServiceItem struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Price string `yaml:"price" json:"price"`
	// OriginalPrice marks a promotional item; when set, the confirmation
	// renders the current price as a special price.
	OriginalPrice string `yaml:"original_price" json:"original_price,omitempty"`
	Duration      string `yaml:"duration" json:"duration"`
	Note          string `yaml:"note" json:"note,omitempty"`
	// PlainMaintenance marks single-colour/maintenance work that is refused
	// during the restricted-surcharge window.
	PlainMaintenance bool `yaml:"plain_maintenance" json:"plain_maintenance"`
}

type ServiceCategory struct {
	ID    string        `yaml:"id" json:"id"`
	Name  string        `yaml:"name" json:"name"`
	Items []ServiceItem `yaml:"items" json:"items"`
}

// RemovalOption carries the display label and price for one removal detail.
type RemovalOption struct {
	Detail RemovalDetail `yaml:"detail" json:"detail"`
	Label  string        `yaml:"label" json:"label"`
	Price  string        `yaml:"price" json:"price"`
}
