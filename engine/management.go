package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"datagate/core"
)

// Project is a tenant workspace registered with the engine.
type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Instance is a data partition within a project. Rows carry its ID in their
// id_instancia column.
type Instance struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Column describes one column of a managed table schema.
type Column struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Default  string `json:"default,omitempty"`
}

// TableSchema describes a managed table within a project.
type TableSchema struct {
	ProjectID string   `json:"project_id"`
	Name      string   `json:"name"`
	Columns   []Column `json:"columns"`
}

// ListProjects returns every project registered with the engine.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	res, err := c.post(ctx, "/list-projects", struct{}{})
	if err != nil {
		return nil, err
	}
	var projects []Project
	if err := decodeData(res.Data, &projects); err != nil {
		return nil, remoteError(fmt.Sprintf("malformed project list: %v", err), http.StatusOK)
	}
	return projects, nil
}

// CreateProject registers a new project under the given name.
func (c *Client) CreateProject(ctx context.Context, name string) (*Project, error) {
	res, err := c.post(ctx, "/create-project", map[string]string{"name": name})
	if err != nil {
		return nil, err
	}
	var project Project
	if err := decodeData(res.Data, &project); err != nil {
		return nil, remoteError(fmt.Sprintf("malformed project: %v", err), http.StatusOK)
	}
	return &project, nil
}

// DeleteProject removes a project and everything in it.
func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	_, err := c.post(ctx, "/delete-project", map[string]string{"project_id": projectID})
	return err
}

// ListInstances returns the instances of a project.
func (c *Client) ListInstances(ctx context.Context, projectID string) ([]Instance, error) {
	res, err := c.post(ctx, "/list-instances", map[string]string{"project_id": projectID})
	if err != nil {
		return nil, err
	}
	var instances []Instance
	if err := decodeData(res.Data, &instances); err != nil {
		return nil, remoteError(fmt.Sprintf("malformed instance list: %v", err), http.StatusOK)
	}
	return instances, nil
}

// CreateInstance adds an instance to a project.
func (c *Client) CreateInstance(ctx context.Context, projectID, name string) (*Instance, error) {
	res, err := c.post(ctx, "/create-instance", map[string]string{
		"project_id": projectID,
		"name":       name,
	})
	if err != nil {
		return nil, err
	}
	var instance Instance
	if err := decodeData(res.Data, &instance); err != nil {
		return nil, remoteError(fmt.Sprintf("malformed instance: %v", err), http.StatusOK)
	}
	return &instance, nil
}

// DeleteInstance removes an instance and its rows.
func (c *Client) DeleteInstance(ctx context.Context, projectID, instanceID string) error {
	_, err := c.post(ctx, "/delete-instance", map[string]string{
		"project_id":  projectID,
		"instance_id": instanceID,
	})
	return err
}

// ListTables returns the table schemas of a project.
func (c *Client) ListTables(ctx context.Context, projectID string) ([]TableSchema, error) {
	res, err := c.post(ctx, "/list-tables", map[string]string{"project_id": projectID})
	if err != nil {
		return nil, err
	}
	var tables []TableSchema
	if err := decodeData(res.Data, &tables); err != nil {
		return nil, remoteError(fmt.Sprintf("malformed table list: %v", err), http.StatusOK)
	}
	return tables, nil
}

// CreateTable registers a table schema with the engine.
func (c *Client) CreateTable(ctx context.Context, schema *TableSchema) error {
	_, err := c.post(ctx, "/create-table", schema)
	return err
}

// DeleteTable removes a table schema and its rows.
func (c *Client) DeleteTable(ctx context.Context, projectID, table string) error {
	_, err := c.post(ctx, "/delete-table", map[string]string{
		"project_id": projectID,
		"table":      table,
	})
	return err
}

// post performs one management call. Management traffic shares the transport
// and error classification of Do but skips the breakers, so the admin panel
// always observes the engine's current state.
func (c *Client) post(ctx context.Context, path string, payload any) (*core.Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set(engineKeyHeader, c.apiKey)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.LogError(http.MethodPost, path, time.Since(start), err)
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	var res core.Result
	decodeErr := json.NewDecoder(resp.Body).Decode(&res)
	c.logger.LogCall(http.MethodPost, path, resp.StatusCode, time.Since(start), resultCount(&res, decodeErr))

	if resp.StatusCode < 200 || resp.StatusCode > 299 || decodeErr != nil {
		return nil, remoteError(remoteDetail(&res, decodeErr, resp.StatusCode), resp.StatusCode)
	}
	if !res.Success {
		return nil, remoteError(remoteDetail(&res, nil, resp.StatusCode), resp.StatusCode)
	}
	return &res, nil
}

// decodeData re-marshals the envelope's data field into a typed value.
func decodeData(data any, out any) error {
	if data == nil {
		return nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
