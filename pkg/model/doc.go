// Package model defines the record types served by opsadmin.
//
// Three record kinds are stored as named, insertion-ordered collections:
//
//   - Organization: a business unit, identified by its store-assigned id and its orgId business key
//   - Server: a host owned by an organization
//   - Command: an operational command owned by an organization
//
// Servers and commands point at their owning organization through the orgId
// reference field. The reference is soft: nothing enforces that the
// organization exists, and deleting an organization leaves its servers and
// commands untouched.
//
// # Records and patches
//
// Every kind implements Record. Partial writes travel as a Patch keyed by the
// JSON field name and are applied with Merge, which performs a shallow merge:
// fields absent from the patch keep their value, fields present in the patch
// are overwritten, and an explicit null resets a field to its zero value.
//
//	org, err := model.FromPatch(model.ResourceOrganizations, model.Patch{
//	    "orgId":   "ORG001",
//	    "orgName": "Tech Solutions Inc",
//	})
//
// # Database Schema
//
// The GORM store maps each kind onto its own table:
//
//   - organizations
//   - servers
//   - commands
package model
