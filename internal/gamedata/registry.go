package gamedata

import "errors"

// PlayerDef is one roster entry loaded from YAML.
type PlayerDef struct {
	Name        string `yaml:"name"`
	StoryPoints int    `yaml:"storyPoints"`
}

// RosterDef represents the structure of roster.yaml.
type RosterDef struct {
	Players []PlayerDef `yaml:"players"`
}

// LoadRoster loads the embedded default roster.
func LoadRoster() (*RosterDef, error) {
	def, err := Load[RosterDef]("roster.yaml")
	if err != nil {
		return nil, err
	}
	if len(def.Players) == 0 {
		return nil, errors.New("no players loaded from roster.yaml")
	}
	return &def, nil
}

// LoadRosterFile loads a roster from a YAML file on disk.
func LoadRosterFile(path string) (*RosterDef, error) {
	def, err := LoadFile[RosterDef](path)
	if err != nil {
		return nil, err
	}
	if len(def.Players) == 0 {
		return nil, errors.New("no players loaded from " + path)
	}
	return &def, nil
}

// MustLoadRoster loads the embedded roster, panicking on error.
func MustLoadRoster() *RosterDef {
	def, err := LoadRoster()
	if err != nil {
		panic(err)
	}
	return def
}
