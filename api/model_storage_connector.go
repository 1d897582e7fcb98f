package api

// StorageConnector describes where writes for a feature group land: a
// stream broker for the online path or a path-based store for the
// offline one.
type StorageConnector struct {
	ConnectorId   int               `json:"connector_id,omitempty"`
	Name          string            `json:"name,omitempty"`
	Type          string            `json:"type,omitempty"`
	Address       string            `json:"address,omitempty"`
	SubjectPrefix string            `json:"subject_prefix,omitempty"`
	Bucket        string            `json:"bucket,omitempty"`
	User          string            `json:"user,omitempty"`
	Pwd           string            `json:"pwd,omitempty"`
	Token         string            `json:"token,omitempty"`
	Options       map[string]string `json:"options,omitempty"`
}

const (
	Connector_Type_Stream = "STREAM"
	Connector_Type_Object = "OBJECT"
)

// StreamServerURL renders the nats server list carried by a STREAM
// connector.
func (c *StorageConnector) StreamServerURL() string {
	return streamServerURL(c.Address)
}
