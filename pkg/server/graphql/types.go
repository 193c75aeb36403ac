package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/doodlesbykumbi/opsadmin/pkg/model"
)

// OrganizationType mirrors the REST view of an organization
var OrganizationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Organization",
	Fields: graphql.Fields{
		"id":                &graphql.Field{Type: graphql.Int},
		"orgId":             &graphql.Field{Type: graphql.String},
		"orgName":           &graphql.Field{Type: graphql.String},
		"mnemonic":          &graphql.Field{Type: graphql.String},
		"queryRoutingKey":   &graphql.Field{Type: graphql.String},
		"description":       &graphql.Field{Type: graphql.String},
		"authorizationMode": &graphql.Field{Type: graphql.String},
		"supportedBy":       &graphql.Field{Type: graphql.String},
		"managedBy":         &graphql.Field{Type: graphql.String},
		"serviceOffering":   &graphql.Field{Type: graphql.String},
		"isActive":          &graphql.Field{Type: graphql.Boolean},
		"jsonConfig":        &graphql.Field{Type: graphql.String},
	},
})

// ServerType mirrors the REST view of a server
var ServerType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Server",
	Fields: graphql.Fields{
		"id":                &graphql.Field{Type: graphql.Int},
		"hostName":          &graphql.Field{Type: graphql.String},
		"domain":            &graphql.Field{Type: graphql.String},
		"appLob":            &graphql.Field{Type: graphql.String},
		"wfguid":            &graphql.Field{Type: graphql.String},
		"appid":             &graphql.Field{Type: graphql.String},
		"appSupportedBy":    &graphql.Field{Type: graphql.String},
		"appManagedBy":      &graphql.Field{Type: graphql.String},
		"deviceSupportedBy": &graphql.Field{Type: graphql.String},
		"deviceManagedBy":   &graphql.Field{Type: graphql.String},
		"isActive":          &graphql.Field{Type: graphql.Boolean},
		"orgId":             &graphql.Field{Type: graphql.Int},
	},
})

// CommandType mirrors the REST view of a command
var CommandType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Command",
	Fields: graphql.Fields{
		"id":           &graphql.Field{Type: graphql.Int},
		"commandId":    &graphql.Field{Type: graphql.String},
		"commandLabel": &graphql.Field{Type: graphql.String},
		"description":  &graphql.Field{Type: graphql.String},
		"isActive":     &graphql.Field{Type: graphql.Boolean},
		"orgId":        &graphql.Field{Type: graphql.Int},
	},
})

// kind describes how one resource appears in the schema.
type kind struct {
	resource model.Resource
	name     string // Organization
	object   *graphql.Object
	list     *graphql.Object
}

func newKind(resource model.Resource, name string, object *graphql.Object) kind {
	return kind{
		resource: resource,
		name:     name,
		object:   object,
		list: graphql.NewObject(graphql.ObjectConfig{
			Name: name + "List",
			Fields: graphql.Fields{
				"data":  &graphql.Field{Type: graphql.NewList(object)},
				"total": &graphql.Field{Type: graphql.Int},
			},
		}),
	}
}

var kinds = []kind{
	newKind(model.ResourceOrganizations, "Organization", OrganizationType),
	newKind(model.ResourceServers, "Server", ServerType),
	newKind(model.ResourceCommands, "Command", CommandType),
}
