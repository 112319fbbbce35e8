/*-------------------------------------------------------------------------
 *
 * evaluator.go
 *    Access control evaluation for warehouse-management
 *
 * Decides whether an actor may perform an operation on an entity by
 * testing the actor's permission grants. Grants match on entity type
 * (exact or wildcard), entity id (exact-as-string or wildcard), and
 * access kind (exact, wildcard, or verb-set membership in relaxed mode).
 * Admin-role actors bypass grant evaluation entirely.
 *
 * An entity = "*" grant never covers the administrative entity types
 * (users, departments, permissions, pending approvals, history logs,
 * restore); those require an explicit grant.
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/auth/evaluator.go
 *
 *-------------------------------------------------------------------------
 */

package auth

import (
	"context"
	"strconv"
	"strings"

	"github.com/Hazem-Saifelnasr/warehouse-management/internal/db"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/metrics"
)

/* Wildcard matches any entity, entity id, or access kind in a grant */
const Wildcard = "*"

/* Access kinds */
const (
	AccessRead    = "read"
	AccessWrite   = "write"
	AccessDelete  = "delete"
	AccessCreate  = "create"
	AccessManage  = "manage"
	AccessAssign  = "assign"
	AccessExport  = "export"
	AccessApprove = "approve"
	AccessRevoke  = "revoke"
	AccessArchive = "archive"
	AccessRestore = "restore"
	AccessShare   = "share"
	AccessExecute = "execute"
)

/* methodMap is the access-kind to HTTP-verb table. A grant with the given
 * access kind satisfies a request arriving with any verb in its set. The
 * table is part of the external contract and must not drift. */
var methodMap = map[string]map[string]bool{
	AccessRead:    {"get": true},
	AccessWrite:   {"post": true, "put": true, "patch": true},
	AccessDelete:  {"delete": true},
	AccessCreate:  {"post": true},
	AccessManage:  {"get": true, "post": true, "put": true, "patch": true, "delete": true},
	AccessAssign:  {"post": true, "put": true},
	AccessExport:  {"get": true},
	AccessApprove: {"post": true, "put": true},
	AccessRevoke:  {"post": true, "put": true},
	AccessArchive: {"post": true, "put": true},
	AccessRestore: {"post": true, "put": true},
	AccessShare:   {"post": true, "put": true},
	AccessExecute: {"post": true, "put": true, "patch": true},
	Wildcard:      {"get": true, "post": true, "put": true, "patch": true, "delete": true},
}

/* administrativeEntities are excluded from wildcard entity grants */
var administrativeEntities = map[string]bool{
	"users":             true,
	"departments":       true,
	"permissions":       true,
	"pending_approvals": true,
	"history_logs":      true,
	"restore":           true,
}

/* IsAdministrativeEntity reports whether the entity type requires an
 * explicit grant (never matched by an entity wildcard). */
func IsAdministrativeEntity(entity string) bool {
	return administrativeEntities[entity]
}

/* VerbSatisfies reports whether a grant access kind covers an HTTP verb */
func VerbSatisfies(accessType, verb string) bool {
	return methodMap[accessType][strings.ToLower(verb)]
}

/* MatchGrant tests one grant against a request. accessKind may be a
 * semantic access kind (exact match required, or grant wildcard) or, when
 * verbMode is set, an HTTP verb tested against the grant's verb set. */
func MatchGrant(grant db.Permission, entity, entityID, accessKind string, verbMode bool) bool {
	if grant.Entity != entity {
		if grant.Entity != Wildcard || IsAdministrativeEntity(entity) {
			return false
		}
	}
	if grant.EntityID != entityID && grant.EntityID != Wildcard {
		return false
	}
	if grant.AccessType == Wildcard {
		return true
	}
	if verbMode {
		return VerbSatisfies(grant.AccessType, accessKind)
	}
	return grant.AccessType == accessKind
}

/* Evaluator makes allow/deny decisions from the permission grant store */
type Evaluator struct {
	queries *db.Queries
	cache   *GrantCache
}

func NewEvaluator(queries *db.Queries, cache *GrantCache) *Evaluator {
	return &Evaluator{queries: queries, cache: cache}
}

/* grantsFor fetches the actor's grants, consulting the cache first */
func (e *Evaluator) grantsFor(ctx context.Context, userID int64) ([]db.Permission, error) {
	if grants, ok := e.cache.Get(userID); ok {
		metrics.RecordGrantCacheLookup(true)
		return grants, nil
	}
	metrics.RecordGrantCacheLookup(false)

	grants, err := e.queries.ListPermissionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	e.cache.Put(userID, grants)
	return grants, nil
}

/* Authorize decides whether the actor may perform accessKind on the entity.
 * Lookup failures deny; the evaluator never returns an error to the caller. */
func (e *Evaluator) Authorize(ctx context.Context, userID int64, entity, entityID, accessKind string) bool {
	allowed := e.authorize(ctx, userID, entity, entityID, accessKind, false)
	metrics.RecordAuthorizationCheck(entity, allowed)
	return allowed
}

/* AuthorizeVerb is the transport-boundary variant: accessKind is an HTTP
 * verb tested against each grant's verb set. */
func (e *Evaluator) AuthorizeVerb(ctx context.Context, userID int64, entity, entityID, verb string) bool {
	allowed := e.authorize(ctx, userID, entity, entityID, verb, true)
	metrics.RecordAuthorizationCheck(entity, allowed)
	return allowed
}

func (e *Evaluator) authorize(ctx context.Context, userID int64, entity, entityID, accessKind string, verbMode bool) bool {
	user, err := e.queries.GetUserByID(ctx, userID)
	if err != nil {
		metrics.WarnWithContext(ctx, "Authorization denied: actor lookup failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return false
	}

	if user.Role == db.RoleAdmin || user.Role == db.RoleSuperuser {
		return true
	}

	grants, err := e.grantsFor(ctx, userID)
	if err != nil {
		metrics.WarnWithContext(ctx, "Authorization denied: grant lookup failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return false
	}

	for _, grant := range grants {
		if MatchGrant(grant, entity, entityID, accessKind, verbMode) {
			return true
		}
	}
	return false
}

/* ResourceFromPath derives (entity, entityID) from a request path: the
 * entity type is the first segment and the entity id the second when it
 * is numeric, otherwise the wildcard. */
func ResourceFromPath(path string) (entity, entityID string) {
	segments := strings.Split(strings.Trim(path, "/"), "/")

	/* Skip a leading API prefix like /api/v1 */
	if len(segments) >= 2 && segments[0] == "api" && strings.HasPrefix(segments[1], "v") {
		segments = segments[2:]
	}

	entity = Wildcard
	entityID = Wildcard
	if len(segments) > 0 && segments[0] != "" {
		entity = segments[0]
	}
	if len(segments) > 1 {
		if _, err := strconv.ParseInt(segments[1], 10, 64); err == nil {
			entityID = segments[1]
		}
	}
	return entity, entityID
}
