package project

import (
	"errors"
	"fmt"
	"strings"

	"github.com/piwi3910/PrintQuote/internal/model"
)

// DefaultProfilesPath returns ~/.printquote/profiles.json.
func DefaultProfilesPath() (string, error) {
	return dataFile("profiles.json")
}

func SaveCustomProfiles(path string, profiles []model.CutterProfile) error {
	return writeJSON(path, profiles)
}

// LoadCustomProfiles reads the custom cutter profiles at path. A missing
// file yields no profiles. Entries without a name or reusing a built-in
// name are dropped.
func LoadCustomProfiles(path string) ([]model.CutterProfile, error) {
	var loaded []model.CutterProfile
	if _, err := readJSON(path, &loaded); err != nil {
		return nil, err
	}
	profiles := make([]model.CutterProfile, 0, len(loaded))
	for _, p := range loaded {
		if p.Name != "" && !model.IsBuiltInProfile(p.Name) {
			profiles = append(profiles, p)
		}
	}
	return profiles, nil
}

// SaveCustomProfilesToDefault saves custom profiles to the default path.
func SaveCustomProfilesToDefault(profiles []model.CutterProfile) error {
	path, err := DefaultProfilesPath()
	if err != nil {
		return err
	}
	return SaveCustomProfiles(path, profiles)
}

// LoadCustomProfilesFromDefault loads custom profiles from the default path.
func LoadCustomProfilesFromDefault() ([]model.CutterProfile, error) {
	path, err := DefaultProfilesPath()
	if err != nil {
		return nil, err
	}
	return LoadCustomProfiles(path)
}

// ExportProfile writes one profile to its own file for sharing.
func ExportProfile(path string, profile model.CutterProfile) error {
	return writeJSON(path, profile)
}

// ImportProfile imports a single profile from a JSON file. The profile
// needs a name, a gauge move with one %s verb and a cut command.
func ImportProfile(path string) (model.CutterProfile, error) {
	var profile model.CutterProfile
	if err := mustReadJSON(path, &profile); err != nil {
		return model.CutterProfile{}, err
	}

	switch {
	case profile.Name == "":
		return model.CutterProfile{}, errors.New("imported profile has no name")
	case model.IsBuiltInProfile(profile.Name):
		return model.CutterProfile{}, fmt.Errorf("profile %q would replace a built-in profile", profile.Name)
	case strings.Count(profile.GaugeMove, "%s") != 1:
		return model.CutterProfile{}, fmt.Errorf("profile %q: gauge move must contain exactly one %%s", profile.Name)
	case profile.CutCommand == "":
		return model.CutterProfile{}, fmt.Errorf("profile %q has no cut command", profile.Name)
	}
	return profile, nil
}
