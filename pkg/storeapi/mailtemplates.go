package storeapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	pkgerrors "github.com/kunkunyu/mailtemplate/pkg/errors"
	"github.com/kunkunyu/mailtemplate/pkg/types"
)

const (
	apiPrefix          = "/apis/api.store.yunext.cn/v1alpha1"
	mailTemplatesPath  = apiPrefix + "/mailtemplates"
	templateGroupsPath = apiPrefix + "/mailtemplategroups"
)

// ListMailTemplatesParams filters the store template listing.
type ListMailTemplatesParams struct {
	Page       int
	Size       int
	Keyword    string
	GroupNames []string
	Sort       []string
	Approved   *bool
}

func (p ListMailTemplatesParams) values() map[string]any {
	params := map[string]any{}
	if p.Page > 0 {
		params["page"] = p.Page
	}
	if p.Size > 0 {
		params["size"] = p.Size
	}
	if kw := strings.TrimSpace(p.Keyword); kw != "" {
		params["keyword"] = kw
	}
	if len(p.GroupNames) > 0 {
		params["groupName"] = p.GroupNames
	}
	if len(p.Sort) > 0 {
		params["sort"] = p.Sort
	}
	if p.Approved != nil {
		params["approved"] = *p.Approved
	}
	return params
}

// ListMailTemplates returns one page of templates joined with their group and owner.
func (c *Client) ListMailTemplates(ctx context.Context, params ListMailTemplatesParams) (*types.ListedMailTemplateList, error) {
	var list types.ListedMailTemplateList
	if err := c.getJSON(ctx, mailTemplatesPath, params.values(), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetMailTemplate fetches a single listed template by metadata name.
func (c *Client) GetMailTemplate(ctx context.Context, name string) (*types.ListedMailTemplate, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "template name is required")
	}

	var item types.ListedMailTemplate
	if err := c.getJSON(ctx, mailTemplatesPath+"/"+url.PathEscape(trimmed), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// ListMailTemplateGroups returns the groups templates can belong to.
func (c *Client) ListMailTemplateGroups(ctx context.Context) (*types.MailTemplateGroupList, error) {
	var list types.MailTemplateGroupList
	if err := c.getJSON(ctx, templateGroupsPath, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params map[string]any, dest any) error {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Params: params})
	if err != nil {
		return err
	}
	if err := resp.DecodeJSON(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode store response")
	}
	return nil
}
