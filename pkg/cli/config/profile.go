package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/caeleel/friendbook/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// LoadAssistantProfile reads an assistant profile from a TOML file. Fields
// left out keep the values of the default profile.
//
//	name = "Friendbook"
//	model = "gpt-4o"
//	instructions = """
//	You help the user remember the people in their life.
//	"""
func LoadAssistantProfile(path string) (*model.AssistantProfile, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, goerr.Wrap(ErrProfileNotFound, "no such file", goerr.V(ProfilePathKey, path))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read assistant profile", goerr.V(ProfilePathKey, path))
	}

	profile := model.DefaultAssistantProfile()
	if err := toml.Unmarshal(data, profile); err != nil {
		return nil, goerr.Wrap(ErrInvalidProfile, "failed to parse TOML profile",
			goerr.V(ProfilePathKey, path), goerr.V("error", err.Error()))
	}

	if err := validateProfile(profile); err != nil {
		return nil, goerr.Wrap(err, "profile validation failed", goerr.V(ProfilePathKey, path))
	}

	return profile, nil
}

func validateProfile(p *model.AssistantProfile) error {
	if p.Name == "" {
		return goerr.Wrap(ErrInvalidProfile, "name is required")
	}
	if p.Model == "" {
		return goerr.Wrap(ErrInvalidProfile, "model is required")
	}
	if p.Instructions == "" {
		return goerr.Wrap(ErrInvalidProfile, "instructions are required")
	}
	return nil
}
