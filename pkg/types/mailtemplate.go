package types

import (
	"time"

	"github.com/kunkunyu/mailtemplate/pkg/pagination"
)

const (
	MailTemplateKind      = "MailTemplate"
	MailTemplateGroupKind = "MailTemplateGroup"
)

type MailTemplate struct {
	APIVersion string           `json:"apiVersion"`
	Kind       string           `json:"kind"`
	Metadata   Metadata         `json:"metadata"`
	Spec       MailTemplateSpec `json:"spec"`
}

type MailTemplateSpec struct {
	Approved     bool       `json:"approved"`
	ApprovedTime *time.Time `json:"approvedTime,omitempty"`
	Cover        string     `json:"cover,omitempty"`
	Description  string     `json:"description,omitempty"`
	DisplayName  string     `json:"displayName"`
	GroupName    string     `json:"groupName"`
	HTMLBody     string     `json:"htmlBody"`
	Owner        string     `json:"owner,omitempty"`
	Priority     int        `json:"priority"`
}

type MailTemplateGroup struct {
	APIVersion string                   `json:"apiVersion"`
	Kind       string                   `json:"kind"`
	Metadata   Metadata                 `json:"metadata"`
	Spec       MailTemplateGroupSpec    `json:"spec"`
	Status     *MailTemplateGroupStatus `json:"status,omitempty"`
}

type MailTemplateGroupSpec struct {
	DisplayName string `json:"displayName"`
	Priority    *int   `json:"priority,omitempty"`
}

type MailTemplateGroupStatus struct {
	MailTemplateCount *int `json:"mailTemplateCount,omitempty"`
}

// Contributor is the optional owner attached to a listed template.
type Contributor struct {
	Avatar      string `json:"avatar,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Name        string `json:"name,omitempty"`
}

// ListedMailTemplate joins a template with its group and owner.
type ListedMailTemplate struct {
	Group        MailTemplateGroup `json:"group"`
	MailTemplate MailTemplate      `json:"mailTemplate"`
	Owner        *Contributor      `json:"owner,omitempty"`
}

// PageInfo carries the pagination metadata of a list envelope.
type PageInfo struct {
	Page        int   `json:"page"`
	Size        int   `json:"size"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	First       bool  `json:"first"`
	Last        bool  `json:"last"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

// NewPageInfo derives every flag from page, size and total.
func NewPageInfo(page, size int, total int64) PageInfo {
	w := pagination.NewWindow(page, size, total)
	return PageInfo{
		Page:        w.Page,
		Size:        w.Size,
		Total:       w.Total,
		TotalPages:  w.TotalPages(),
		First:       w.First(),
		Last:        w.Last(),
		HasNext:     w.HasNext(),
		HasPrevious: w.HasPrevious(),
	}
}

// Consistent reports whether the flags agree with page, size and total.
func (p PageInfo) Consistent() bool {
	if p.HasNext != (p.Page < p.TotalPages-1) {
		return false
	}
	if p.HasPrevious != (p.Page > 0) {
		return false
	}
	return p.Total <= int64(p.Size)*int64(p.TotalPages)
}

type ListedMailTemplateList struct {
	PageInfo
	Items []ListedMailTemplate `json:"items"`
}

// NewListedMailTemplateList builds a page envelope whose flags satisfy the pagination invariants.
func NewListedMailTemplateList(page, size int, total int64, items []ListedMailTemplate) ListedMailTemplateList {
	if items == nil {
		items = []ListedMailTemplate{}
	}
	return ListedMailTemplateList{PageInfo: NewPageInfo(page, size, total), Items: items}
}

type MailTemplateGroupList struct {
	PageInfo
	Items []MailTemplateGroup `json:"items"`
}
