package api

type Instance struct {
	InstanceId string `json:"instance_id"`
	Region     string `json:"region,omitempty"`
	Status     string `json:"status,omitempty"`
	Version    string `json:"version,omitempty"`
}
