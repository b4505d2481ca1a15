package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// ErrContractNotFound is returned when no deployment is registered under a name.
var ErrContractNotFound = errors.New("contract not found")

// Well-known deployment names used by the CLI.
const (
	STEWDeployment = "stew"
	SaleDeployment = "sale"
)

// Entry is a deployed contract instance on the local devnet.
type Entry struct {
	Name    string         `json:"name"`
	Builtin string         `json:"builtin"`
	Address common.Address `json:"address"`
	Block   uint64         `json:"block"`
}

// Registry stores and retrieves deployment entries.
type Registry struct {
	path      string
	contracts map[string]*Entry
}

// NewRegistry creates a Registry backed by a JSON file.
func NewRegistry(path string) *Registry {
	return &Registry{
		path:      path,
		contracts: make(map[string]*Entry),
	}
}

// Load reads stored deployments from disk. A missing file is an empty registry.
func (r *Registry) Load() error {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parsing %s: %w", r.path, err)
	}
	for i := range entries {
		e := &entries[i]
		if _, ok := GetBuiltin(e.Builtin); !ok {
			return fmt.Errorf("%s: unknown builtin %q", e.Name, e.Builtin)
		}
		r.contracts[e.Name] = e
	}
	return nil
}

// Save writes all deployments to disk.
func (r *Registry) Save() error {
	data, err := json.MarshalIndent(r.All(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0o600)
}

// Add adds or replaces a deployment.
func (r *Registry) Add(e *Entry) {
	r.contracts[e.Name] = e
}

// Get returns a deployment by name.
func (r *Registry) Get(name string) (*Entry, error) {
	e, ok := r.contracts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrContractNotFound, name)
	}
	return e, nil
}

// All returns every deployment sorted by name.
func (r *Registry) All() []*Entry {
	out := make([]*Entry, 0, len(r.contracts))
	for _, e := range r.contracts {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Remove deletes a deployment.
func (r *Registry) Remove(name string) error {
	if _, ok := r.contracts[name]; !ok {
		return fmt.Errorf("%w: %s", ErrContractNotFound, name)
	}
	delete(r.contracts, name)
	return nil
}

// Reset drops every deployment.
func (r *Registry) Reset() {
	r.contracts = make(map[string]*Entry)
}
