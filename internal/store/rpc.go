package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/financeflow/flowdesk/internal/domain"
)

// Privileged procedures.
const (
	ProcGetProfileForAdmin   = "get_profile_for_admin"
	ProcAdminUpdateProfile   = "admin_update_profile"
	ProcLookupProfileByEmail = "lookup_profile_by_email"
)

type procedure func(ctx context.Context, c *Client, caller *domain.Caller, args map[string]any) Result

var procedures = map[string]procedure{
	ProcGetProfileForAdmin:   getProfileForAdmin,
	ProcAdminUpdateProfile:   adminUpdateProfile,
	ProcLookupProfileByEmail: lookupProfileByEmail,
}

// RPC calls a privileged procedure. Procedures bypass row policies and
// apply their own authorization.
func (c *Client) RPC(ctx context.Context, name string, args map[string]any) Result {
	ctx, span := c.startSpan(ctx, "rpc", name)
	return c.finish(span, "rpc", name, c.rpc(ctx, name, args))
}

func (c *Client) rpc(ctx context.Context, name string, args map[string]any) Result {
	proc, ok := procedures[name]
	if !ok {
		return failed("%w: %s", ErrUnknownProcedure, name)
	}
	caller, err := c.Caller(ctx)
	if err != nil {
		return Result{Err: err}
	}
	return proc(ctx, c, caller, args)
}

func stringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key].(string)
	if !ok || strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("argument %s is required", key)
	}
	return v, nil
}

func getProfileForAdmin(ctx context.Context, c *Client, caller *domain.Caller, args map[string]any) Result {
	if !caller.IsSuperAdmin() {
		return Result{Err: ErrPermissionDenied}
	}
	target, err := stringArg(args, "target_user_id")
	if err != nil {
		return Result{Err: err}
	}
	coll := collections[Profiles]
	data, err := queryRows(ctx, c.conn, coll,
		"SELECT "+strings.Join(coll.columns, ", ")+" FROM profiles WHERE id = ?",
		[]any{target})
	if err != nil {
		return failed("%s: %w", ProcGetProfileForAdmin, err)
	}
	return Result{Data: data, Count: len(data)}
}

// adminProfileColumns are the fields admin_update_profile may change.
var adminProfileColumns = map[string]bool{
	"name":              true,
	"user_type":         true,
	"subscription":      true,
	"subscription_data": true,
}

func adminUpdateProfile(ctx context.Context, c *Client, caller *domain.Caller, args map[string]any) Result {
	if !caller.IsSuperAdmin() {
		return Result{Err: ErrPermissionDenied}
	}
	target, err := stringArg(args, "target_user_id")
	if err != nil {
		return Result{Err: err}
	}
	patch, ok := args["update_data"].(map[string]any)
	if !ok || len(patch) == 0 {
		return failed("argument update_data is required")
	}

	cols := sortedKeys(patch)
	sets := make([]string, 0, len(cols)+1)
	vals := make([]any, 0, len(cols)+2)
	for _, col := range cols {
		if !adminProfileColumns[col] {
			return failed("%w: profiles.%s", ErrUnknownColumn, col)
		}
		sets = append(sets, col+" = ?")
		vals = append(vals, bindValue(patch[col]))
	}
	sets = append(sets, "updated_at = ?")
	vals = append(vals, time.Now().UTC().Format(TimestampLayout), target)

	res, err := c.conn.ExecContext(ctx,
		"UPDATE profiles SET "+strings.Join(sets, ", ")+" WHERE id = ?", vals...)
	if err != nil {
		return failed("%s: %w", ProcAdminUpdateProfile, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return failed("%s: %w", ProcAdminUpdateProfile, err)
	}
	return Result{Data: []Row{{"updated": n > 0}}, Count: int(n)}
}

// lookupProfileByEmail exposes only identity columns, so any signed-in
// caller may use it to resolve an email to a user id.
func lookupProfileByEmail(ctx context.Context, c *Client, _ *domain.Caller, args map[string]any) Result {
	email, err := stringArg(args, "email")
	if err != nil {
		return Result{Err: err}
	}
	data, err := queryRows(ctx, c.conn, nil,
		"SELECT id, email, name FROM profiles WHERE email = ?",
		[]any{strings.ToLower(strings.TrimSpace(email))})
	if err != nil {
		return failed("%s: %w", ProcLookupProfileByEmail, err)
	}
	return Result{Data: data, Count: len(data)}
}
