package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Organization is a business unit owning servers and commands.
type Organization struct {
	ID                ID                `json:"id" gorm:"primaryKey"`
	OrgID             string            `json:"orgId"`
	OrgName           string            `json:"orgName"`
	Mnemonic          string            `json:"mnemonic"`
	QueryRoutingKey   string            `json:"queryRoutingKey"`
	Description       string            `json:"description"`
	AuthorizationMode AuthorizationMode `json:"authorizationMode"`
	SupportedBy       string            `json:"supportedBy"`
	ManagedBy         string            `json:"managedBy"`
	ServiceOffering   string            `json:"serviceOffering"`
	IsActive          bool              `json:"isActive"`
}

func (Organization) TableName() string {
	return "organizations"
}

func (o *Organization) Resource() Resource { return ResourceOrganizations }
func (o *Organization) RecordID() ID       { return o.ID }
func (o *Organization) SetRecordID(id ID)  { o.ID = id }

func (o *Organization) Clone() Record {
	c := *o
	return &c
}

// JSONConfig renders the organization's fields, minus its id, as indented
// JSON. The result is derived on every call and never stored.
func (o *Organization) JSONConfig() (string, error) {
	fields, err := Fields(o)
	if err != nil {
		return "", err
	}
	delete(fields, "id")

	data, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// expandPatch lifts the fields of a jsonConfig document into the patch.
// Fields set explicitly in the patch win over the document.
func (o *Organization) expandPatch(patch Patch) (Patch, error) {
	raw, ok := patch["jsonConfig"]
	if !ok {
		return patch, nil
	}

	out := make(Patch, len(patch))
	for k, v := range patch {
		if k != "jsonConfig" {
			out[k] = v
		}
	}

	var doc string
	switch v := raw.(type) {
	case nil:
		return out, nil
	case string:
		doc = v
	default:
		return nil, FieldErrors{{Field: "jsonConfig", Message: "must be a JSON document encoded as a string"}}
	}
	if strings.TrimSpace(doc) == "" {
		return out, nil
	}

	var config map[string]any
	if err := json.Unmarshal([]byte(doc), &config); err != nil {
		return nil, FieldErrors{{Field: "jsonConfig", Message: fmt.Sprintf("is not valid JSON: %v", err)}}
	}
	for k, v := range config {
		if k == "id" {
			continue
		}
		if _, set := out[k]; !set {
			out[k] = v
		}
	}
	return out, nil
}

func (o *Organization) Validate() error {
	var errs FieldErrors
	errs = requireString(errs, "orgId", o.OrgID)
	errs = requireString(errs, "orgName", o.OrgName)
	errs = requireString(errs, "mnemonic", o.Mnemonic)
	if !o.AuthorizationMode.IsAAuthorizationMode() {
		errs = append(errs, FieldError{
			Field:   "authorizationMode",
			Message: "must be one of " + strings.Join(AuthorizationModeStrings(), ", "),
		})
	}
	return errs.OrNil()
}
