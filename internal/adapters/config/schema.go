package config

// Kilnfile represents the structure of the kiln.yaml configuration file.
// Unset fields keep their defaults.
type Kilnfile struct {
	Build     *string           `yaml:"build"`
	Scripts   *string           `yaml:"scripts"`
	Styles    *string           `yaml:"styles"`
	Source    *string           `yaml:"source"`
	Static    *string           `yaml:"static"`
	Entry     *string           `yaml:"entry"`
	Output    *string           `yaml:"output"`
	Modules   *string           `yaml:"modules"`
	Archive   *string           `yaml:"archive"`
	Banner    *bool             `yaml:"banner"`
	Vendor    map[string]string `yaml:"vendor"`
	VendorDev map[string]string `yaml:"vendorDev"`
	Server    *ServerDTO        `yaml:"server"`
	Debounce  *string           `yaml:"debounce"`
}

// ServerDTO represents the dev server section.
type ServerDTO struct {
	Host *string `yaml:"host"`
	Port *int    `yaml:"port"`
}
