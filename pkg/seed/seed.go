package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/doodlesbykumbi/opsadmin/pkg/model"
	"github.com/doodlesbykumbi/opsadmin/pkg/server/store"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

// Fixtures are the records of every resource, in file order.
type Fixtures struct {
	Organizations []model.Patch `yaml:"organizations"`
	Servers       []model.Patch `yaml:"servers"`
	Commands      []model.Patch `yaml:"commands"`
}

// Parse decodes a fixtures document.
func Parse(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing fixtures: %w", err)
	}
	return &f, nil
}

// Load reads and decodes the fixtures file at path.
func Load(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixtures: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in demo fixtures.
func Default() *Fixtures {
	f, err := Parse(defaultFixtures)
	if err != nil {
		panic(err)
	}
	return f
}

// Patches returns the fixture entries of resource.
func (f *Fixtures) Patches(resource model.Resource) []model.Patch {
	switch resource {
	case model.ResourceOrganizations:
		return f.Organizations
	case model.ResourceServers:
		return f.Servers
	case model.ResourceCommands:
		return f.Commands
	}
	return nil
}

func (f *Fixtures) setPatches(resource model.Resource, patches []model.Patch) {
	switch resource {
	case model.ResourceOrganizations:
		f.Organizations = patches
	case model.ResourceServers:
		f.Servers = patches
	case model.ResourceCommands:
		f.Commands = patches
	}
}

// Records decodes and validates the entries of resource. Entries without an
// id get id 0.
func (f *Fixtures) Records(resource model.Resource) ([]model.Record, error) {
	patches := f.Patches(resource)
	records := make([]model.Record, 0, len(patches))
	for i, patch := range patches {
		var id model.ID
		if raw, ok := patch["id"]; ok && raw != nil {
			parsed, err := model.ParseID(model.FormatValue(raw))
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", resource, i, err)
			}
			id = parsed
		}

		r, err := model.FromPatch(resource, patch)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", resource, i, err)
		}
		if err := model.Validate(r); err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", resource, i, err)
		}
		r.SetRecordID(id)
		records = append(records, r)
	}
	return records, nil
}

// Apply imports every resource of f into importer, organizations first.
// It returns the number of records imported per resource.
func Apply(ctx context.Context, importer store.RecordsImporter, f *Fixtures) (map[model.Resource]int, error) {
	counts := make(map[model.Resource]int, len(model.ResourceValues()))
	for _, resource := range model.ResourceValues() {
		records, err := f.Records(resource)
		if err != nil {
			return counts, err
		}
		if len(records) == 0 {
			continue
		}
		n, err := importer.Import(ctx, resource, records)
		if err != nil {
			return counts, fmt.Errorf("importing %s: %w", resource, err)
		}
		counts[resource] = n
	}
	return counts, nil
}

// Export reads every record of every resource from records, ordered by id.
func Export(ctx context.Context, records store.RecordsStore) (*Fixtures, error) {
	f := &Fixtures{}
	for _, resource := range model.ResourceValues() {
		result, err := records.List(ctx, resource, store.ListParams{
			Sort: store.Sort{Field: "id", Order: store.SortAscending},
		})
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", resource, err)
		}

		patches := make([]model.Patch, 0, len(result.Data))
		for _, r := range result.Data {
			fields, err := model.Fields(r)
			if err != nil {
				return nil, err
			}
			patches = append(patches, model.Patch(fields))
		}
		f.setPatches(resource, patches)
	}
	return f, nil
}

// Marshal encodes f as a fixtures document.
func (f *Fixtures) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}
