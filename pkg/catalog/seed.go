package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// seedFile is the on-disk layout:
//
//	services:
//	  - id: svc-music
//	    name: Music
//	    price: 9.99
//	    currency: USD
//	    billing_cycle: monthly
//	    type: subscription
type seedFile struct {
	Services []Service `yaml:"services"`
}

// ParseSeed decodes and validates seed definitions.
func ParseSeed(r io.Reader) ([]Service, error) {
	var f seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(ErrFailedToLoadSeed, err)
	}

	for i, svc := range f.Services {
		if err := svc.Validate(); err != nil {
			return nil, errors.Join(ErrFailedToLoadSeed, fmt.Errorf("service #%d (%s): %w", i, svc.ID, err))
		}
	}
	return f.Services, nil
}

// LoadSeedFile reads service definitions from a YAML file.
func LoadSeedFile(path string) ([]Service, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadSeed, err)
	}
	defer f.Close()

	return ParseSeed(f)
}

// Seed creates the given services, skipping ids that already exist.
// Returns the number of services created.
func Seed(ctx context.Context, store Store, services []Service) (int, error) {
	created := 0
	for _, svc := range services {
		if svc.ID != "" {
			if _, err := store.Get(ctx, svc.ID); err == nil {
				continue
			} else if !errors.Is(err, ErrServiceNotFound) {
				return created, err
			}
		}
		if _, err := store.Create(ctx, svc); err != nil {
			if errors.Is(err, ErrServiceExists) {
				continue
			}
			return created, err
		}
		created++
	}
	return created, nil
}
