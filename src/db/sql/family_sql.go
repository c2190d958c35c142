package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack-server/src/models"
)

// CreateFamily inserts the family with its owner as principal in one
// transaction.
func CreateFamily(ctx context.Context, pool *pgxpool.Pool, name string, ownerID int) (*models.Family, error) {
	dbtx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer dbtx.Rollback(ctx)

	var f models.Family
	err = dbtx.QueryRow(ctx, `
		INSERT INTO families (id, name, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, name, owner_id, created_at
	`, uuid.NewString(), name, ownerID).
		Scan(&f.ID, &f.Name, &f.OwnerID, &f.CreatedAt)
	if err != nil {
		return nil, err
	}

	canEdit, canDelete, canInvite := models.PermissionsForRole(models.RolePrincipal)
	var principal models.FamilyMember
	err = dbtx.QueryRow(ctx, `
		INSERT INTO family_members (family_id, user_id, role, can_edit, can_delete, can_invite)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING family_id, user_id, role, can_edit, can_delete, can_invite, joined_at
	`, f.ID, ownerID, models.RolePrincipal, canEdit, canDelete, canInvite).
		Scan(&principal.FamilyID, &principal.UserID, &principal.Role,
			&principal.CanEdit, &principal.CanDelete, &principal.CanInvite, &principal.JoinedAt)
	if err != nil {
		return nil, err
	}
	f.Members = []models.FamilyMember{principal}

	if err := dbtx.Commit(ctx); err != nil {
		return nil, err
	}
	return &f, nil
}

func GetFamilyByID(ctx context.Context, pool *pgxpool.Pool, familyID string) (*models.Family, error) {
	var f models.Family
	err := pool.QueryRow(ctx, `
		SELECT id, name, owner_id, created_at FROM families WHERE id = $1
	`, familyID).Scan(&f.ID, &f.Name, &f.OwnerID, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("family not found")
		}
		return nil, err
	}

	rows, err := pool.Query(ctx, `
		SELECT family_id, user_id, role, can_edit, can_delete, can_invite, joined_at
		FROM family_members WHERE family_id = $1
		ORDER BY joined_at
	`, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var m models.FamilyMember
		err := rows.Scan(&m.FamilyID, &m.UserID, &m.Role, &m.CanEdit, &m.CanDelete, &m.CanInvite, &m.JoinedAt)
		if err != nil {
			return nil, err
		}
		f.Members = append(f.Members, m)
	}
	return &f, rows.Err()
}

func GetFamiliesForUser(ctx context.Context, pool *pgxpool.Pool, userID int) ([]models.Family, error) {
	rows, err := pool.Query(ctx, `
		SELECT f.id, f.name, f.owner_id, f.created_at
		FROM families f
		JOIN family_members m ON m.family_id = f.id
		WHERE m.user_id = $1
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var families []models.Family
	for rows.Next() {
		var f models.Family
		if err := rows.Scan(&f.ID, &f.Name, &f.OwnerID, &f.CreatedAt); err != nil {
			return nil, err
		}
		families = append(families, f)
	}
	return families, rows.Err()
}

// GetFamilyMember returns the membership row for a user, or an error when
// they don't belong to the family.
func GetFamilyMember(ctx context.Context, pool *pgxpool.Pool, familyID string, userID int) (*models.FamilyMember, error) {
	var m models.FamilyMember
	err := pool.QueryRow(ctx, `
		SELECT family_id, user_id, role, can_edit, can_delete, can_invite, joined_at
		FROM family_members WHERE family_id = $1 AND user_id = $2
	`, familyID, userID).
		Scan(&m.FamilyID, &m.UserID, &m.Role, &m.CanEdit, &m.CanDelete, &m.CanInvite, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("not a family member")
		}
		return nil, err
	}
	return &m, nil
}

func AddFamilyMember(ctx context.Context, pool *pgxpool.Pool, familyID string, userID int, role string) (*models.FamilyMember, error) {
	canEdit, canDelete, canInvite := models.PermissionsForRole(role)
	var m models.FamilyMember
	err := pool.QueryRow(ctx, `
		INSERT INTO family_members (family_id, user_id, role, can_edit, can_delete, can_invite)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING family_id, user_id, role, can_edit, can_delete, can_invite, joined_at
	`, familyID, userID, role, canEdit, canDelete, canInvite).
		Scan(&m.FamilyID, &m.UserID, &m.Role, &m.CanEdit, &m.CanDelete, &m.CanInvite, &m.JoinedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func UpdateFamilyMemberRole(ctx context.Context, pool *pgxpool.Pool, familyID string, userID int, role string) (*models.FamilyMember, error) {
	canEdit, canDelete, canInvite := models.PermissionsForRole(role)
	var m models.FamilyMember
	err := pool.QueryRow(ctx, `
		UPDATE family_members
		SET role = $1, can_edit = $2, can_delete = $3, can_invite = $4
		WHERE family_id = $5 AND user_id = $6
		RETURNING family_id, user_id, role, can_edit, can_delete, can_invite, joined_at
	`, role, canEdit, canDelete, canInvite, familyID, userID).
		Scan(&m.FamilyID, &m.UserID, &m.Role, &m.CanEdit, &m.CanDelete, &m.CanInvite, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("member not found")
		}
		return nil, err
	}
	return &m, nil
}

func RemoveFamilyMember(ctx context.Context, pool *pgxpool.Pool, familyID string, userID int) error {
	cmd, err := pool.Exec(ctx, `
		DELETE FROM family_members WHERE family_id = $1 AND user_id = $2
	`, familyID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("member not found")
	}
	return nil
}
