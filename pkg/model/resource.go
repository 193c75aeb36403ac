package model

//go:generate go run github.com/dmarkham/enumer -type Resource -trimprefix Resource -transform lower -text -output resource.gen.go

// Resource names one of the record collections.
type Resource int

const (
	ResourceOrganizations Resource = iota
	ResourceServers
	ResourceCommands
)

// Singular returns the name of a single record of the resource.
func (r Resource) Singular() string {
	switch r {
	case ResourceOrganizations:
		return "organization"
	case ResourceServers:
		return "server"
	case ResourceCommands:
		return "command"
	default:
		return r.String()
	}
}

// New returns an empty record of the resource's kind, or nil for an unknown resource.
func New(r Resource) Record {
	switch r {
	case ResourceOrganizations:
		return &Organization{}
	case ResourceServers:
		return &Server{}
	case ResourceCommands:
		return &Command{}
	default:
		return nil
	}
}
