package domain

import "strings"

// Stage is a kanban pipeline column. Stages are totally ordered for display
// but any stage may move to any other.
type Stage string

const (
	StageShot      Stage = "shot"
	StageEditing   Stage = "editing"
	StageReview    Stage = "review"
	StageDelivered Stage = "delivered"
)

// Stages lists the pipeline columns in display order.
var Stages = []Stage{StageShot, StageEditing, StageReview, StageDelivered}

// legacyStages maps the stage names written by the first web release.
var legacyStages = map[string]Stage{
	"filmado":  StageShot,
	"edicao":   StageEditing,
	"revisao":  StageReview,
	"entregue": StageDelivered,
}

// ParseStage resolves s to a Stage, accepting legacy names.
func ParseStage(s string) (Stage, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, st := range Stages {
		if string(st) == key {
			return st, true
		}
	}
	st, ok := legacyStages[key]
	return st, ok
}

// Title returns the column heading for the stage.
func (s Stage) Title() string {
	switch s {
	case StageShot:
		return "Shot"
	case StageEditing:
		return "Editing"
	case StageReview:
		return "Review"
	case StageDelivered:
		return "Delivered"
	default:
		return string(s)
	}
}

// Index returns the display position of s, or -1 if s is not a stage.
func (s Stage) Index() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

var legacyPriorities = map[string]Priority{
	"alta":  PriorityHigh,
	"media": PriorityMedium,
	"média": PriorityMedium,
	"baixa": PriorityLow,
}

// ParsePriority resolves s to a Priority, accepting legacy names.
func ParsePriority(s string) (Priority, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch Priority(key) {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return Priority(key), true
	}
	p, ok := legacyPriorities[key]
	return p, ok
}

type Plan string

const (
	PlanFree             Plan = "free"
	PlanBasic            Plan = "basic"
	PlanPremium          Plan = "premium"
	PlanEnterprise       Plan = "enterprise"
	PlanEnterpriseAnnual Plan = "enterprise-annual"
)

// ParsePlan resolves s to a Plan.
func ParsePlan(s string) (Plan, bool) {
	switch p := Plan(strings.ToLower(strings.TrimSpace(s))); p {
	case PlanFree, PlanBasic, PlanPremium, PlanEnterprise, PlanEnterpriseAnnual:
		return p, true
	}
	return "", false
}

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionInactive  SubscriptionStatus = "inactive"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// ParseSubscriptionStatus resolves s to a SubscriptionStatus.
func ParseSubscriptionStatus(s string) (SubscriptionStatus, bool) {
	switch st := SubscriptionStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case SubscriptionActive, SubscriptionInactive, SubscriptionCancelled:
		return st, true
	}
	return "", false
}

// Role is the authorization role carried by an authenticated caller.
type Role string

const (
	RoleMember     Role = "member"
	RoleSuperAdmin Role = "super_admin"
)

type MemberRole string

const (
	MemberOwner  MemberRole = "owner"
	MemberAdmin  MemberRole = "admin"
	MemberMember MemberRole = "member"
)

type NotificationState string

const (
	NotificationPending   NotificationState = "pending"
	NotificationDelivered NotificationState = "delivered"
	NotificationCancelled NotificationState = "cancelled"
)
