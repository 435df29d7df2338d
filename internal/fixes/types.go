// Package fixes synthesizes mechanical resolutions for diagnostics.
// Each diagnostic yields zero or more independently selectable Fix
// alternatives; exactly one is applied per invocation, against the
// original unmodified declaration. Re-analysis between applications is
// required; no fix assumes another has already been applied.
package fixes

import (
	"maplint/internal/mapping"
	"maplint/internal/shape"
)

// Operation is the kind of source transformation an Edit performs.
type Operation string

const (
	// OpAppendMemberConfig appends a ForMember config to the declaration
	OpAppendMemberConfig Operation = "append_member_config"
	// OpRemoveMemberConfig removes the member's explicit config
	OpRemoveMemberConfig Operation = "remove_member_config"
	// OpRewriteExpression replaces a MapFrom expression in place
	OpRewriteExpression Operation = "rewrite_expression"
	// OpInsertComment inserts an advisory comment; leaves code unchanged
	OpInsertComment Operation = "insert_comment"
	// OpInsertSourceMember adds a member to the source type
	OpInsertSourceMember Operation = "insert_source_member"
)

// Edit is one minimal source transformation. Anchor is the location
// the edit attaches to; Text is the snippet to insert or the
// replacement expression, rendered in the profile's source syntax.
type Edit struct {
	Operation Operation        `json:"operation"`
	Anchor    mapping.Location `json:"anchor,omitempty"`
	// Member is the destination member the edit concerns, or the new
	// source member name for OpInsertSourceMember.
	Member string `json:"member,omitempty"`
	Text   string `json:"text,omitempty"`
	// MemberType carries the inserted member's type for
	// OpInsertSourceMember so model-level application stays typed.
	MemberType *shape.TypeRef `json:"memberType,omitempty"`
}

// Fix is one selectable alternative for resolving a diagnostic. Most
// fixes are a single edit; the hazard fixes pair a config removal with
// a source-member insertion and apply both atomically.
type Fix struct {
	Description string `json:"description"`
	Edits       []Edit `json:"edits"`
	// CommentOnly marks advisory fixes that intentionally leave the
	// original condition open until further developer action.
	CommentOnly bool `json:"commentOnly,omitempty"`
}

// Applied is the model-level result of applying one Fix: the post-fix
// declaration and source shape. Destination shapes are never modified.
// Tests re-run classification over it to check idempotence.
type Applied struct {
	Declaration *mapping.Declaration
	SourceShape *shape.TypeShape
}
