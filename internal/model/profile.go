package model

import "fmt"

// CutterProfile describes the program dialect of a guillotine cutter.
type CutterProfile struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Units       string `json:"units"` // "mm", "cm" or "in"

	StartCode []string `json:"start_code"` // Lines at the start of a program
	EndCode   []string `json:"end_code"`   // Lines at the end of a program

	// GaugeMove positions the back gauge; %s receives the distance.
	GaugeMove   string `json:"gauge_move"`
	CutCommand  string `json:"cut_command"`
	TurnCommand string `json:"turn_command"` // Stack turned 90 degrees

	CommentPrefix string `json:"comment_prefix"`
	CommentSuffix string `json:"comment_suffix"`

	DecimalPlaces int `json:"decimal_places"`
}

// Built-in cutter profiles
var CutterProfiles = []CutterProfile{
	{
		Name:          "Generic",
		Description:   "Plain cut list in millimetres",
		Units:         "mm",
		StartCode:     []string{"PROGRAM"},
		EndCode:       []string{"END"},
		GaugeMove:     "GAUGE %s",
		CutCommand:    "CUT",
		TurnCommand:   "TURN 90",
		CommentPrefix: ";",
		CommentSuffix: "",
		DecimalPlaces: 1,
	},
	{
		Name:          "Polar",
		Description:   "Polar Compucut style step program",
		Units:         "mm",
		StartCode:     []string{"P START", "UNIT MM"},
		EndCode:       []string{"P END"},
		GaugeMove:     "S %s",
		CutCommand:    "K",
		TurnCommand:   "R",
		CommentPrefix: "(",
		CommentSuffix: ")",
		DecimalPlaces: 2,
	},
	{
		Name:          "Wohlenberg",
		Description:   "Wohlenberg cut-tec step program in centimetres",
		Units:         "cm",
		StartCode:     []string{"%"},
		EndCode:       []string{"M30", "%"},
		GaugeMove:     "X%s",
		CutCommand:    "M10",
		TurnCommand:   "M20",
		CommentPrefix: "#",
		CommentSuffix: "",
		DecimalPlaces: 2,
	},
}

// CustomProfiles holds user-defined profiles loaded from disk.
var CustomProfiles []CutterProfile

// AllProfiles returns built-in profiles followed by custom ones.
func AllProfiles() []CutterProfile {
	all := make([]CutterProfile, 0, len(CutterProfiles)+len(CustomProfiles))
	all = append(all, CutterProfiles...)
	all = append(all, CustomProfiles...)
	return all
}

// GetProfile returns the named profile, falling back to the first
// built-in one.
func GetProfile(name string) CutterProfile {
	for _, p := range AllProfiles() {
		if p.Name == name {
			return p
		}
	}
	return CutterProfiles[0]
}

// GetProfileNames returns the names of all profiles for dropdowns.
func GetProfileNames() []string {
	all := AllProfiles()
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.Name
	}
	return names
}

// IsBuiltInProfile reports whether name is a built-in profile.
func IsBuiltInProfile(name string) bool {
	for _, p := range CutterProfiles {
		if p.Name == name {
			return true
		}
	}
	return false
}

// NewCustomProfile returns a profile based on Generic under a new name.
func NewCustomProfile(name string) CutterProfile {
	p := CutterProfiles[0]
	p.Name = name
	p.Description = "Custom profile"
	p.StartCode = append([]string(nil), p.StartCode...)
	p.EndCode = append([]string(nil), p.EndCode...)
	return p
}

// AddCustomProfile adds p or replaces the custom profile of the same name.
func AddCustomProfile(p CutterProfile) error {
	if p.Name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if IsBuiltInProfile(p.Name) {
		return fmt.Errorf("cannot override built-in profile %q", p.Name)
	}
	for i := range CustomProfiles {
		if CustomProfiles[i].Name == p.Name {
			CustomProfiles[i] = p
			return nil
		}
	}
	CustomProfiles = append(CustomProfiles, p)
	return nil
}

// RemoveCustomProfile deletes the named custom profile.
func RemoveCustomProfile(name string) error {
	if IsBuiltInProfile(name) {
		return fmt.Errorf("cannot remove built-in profile %q", name)
	}
	for i := range CustomProfiles {
		if CustomProfiles[i].Name == name {
			CustomProfiles = append(CustomProfiles[:i], CustomProfiles[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("profile %q not found", name)
}
