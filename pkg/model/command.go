package model

// Command is an operational command owned by an organization.
type Command struct {
	ID           ID     `json:"id" gorm:"primaryKey"`
	CommandID    string `json:"commandId"`
	CommandLabel string `json:"commandLabel"`
	Description  string `json:"description"`
	IsActive     bool   `json:"isActive"`
	OrgID        ID     `json:"orgId"`
}

func (Command) TableName() string {
	return "commands"
}

func (c *Command) Resource() Resource { return ResourceCommands }
func (c *Command) RecordID() ID       { return c.ID }
func (c *Command) SetRecordID(id ID)  { c.ID = id }

func (c *Command) Clone() Record {
	cp := *c
	return &cp
}

func (c *Command) Validate() error {
	var errs FieldErrors
	errs = requireString(errs, "commandId", c.CommandID)
	errs = requireString(errs, "commandLabel", c.CommandLabel)
	errs = requireReference(errs, "orgId", c.OrgID)
	return errs.OrNil()
}
