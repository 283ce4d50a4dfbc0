package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ohalushka/polis/core"
)

func (a *Adapter) CreatePartner(ctx context.Context, p *core.Partner) error {
	insurances, err := encodeInsurances(p.Insurances)
	if err != nil {
		return err
	}

	res, err := a.db.ExecContext(ctx,
		`INSERT INTO partners (company_name, contact_person, company_email, phone, password_hash, insurances)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.CompanyName, p.ContactPerson, p.CompanyEmail, p.Phone, p.PasswordHash, insurances)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return core.ErrPartnerExists
		}
		return fmt.Errorf("failed to insert partner: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted id: %w", err)
	}
	p.ID = id
	return nil
}

func (a *Adapter) GetPartnerByID(ctx context.Context, id int64) (*core.Partner, error) {
	row := a.db.QueryRowContext(ctx,
		`SELECT id, company_name, contact_person, company_email, phone, password_hash, insurances
		 FROM partners WHERE id = ?`, id)
	return scanPartner(row)
}

func (a *Adapter) GetPartnerByEmail(ctx context.Context, companyEmail string) (*core.Partner, error) {
	row := a.db.QueryRowContext(ctx,
		`SELECT id, company_name, contact_person, company_email, phone, password_hash, insurances
		 FROM partners WHERE company_email = ?`, companyEmail)
	return scanPartner(row)
}

func (a *Adapter) AppendPartnerInsurance(ctx context.Context, id int64, ins core.Insurance) (*core.Partner, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT id, company_name, contact_person, company_email, phone, password_hash, insurances
		 FROM partners WHERE id = ?`, id)
	partner, err := scanPartner(row)
	if err != nil {
		return nil, err
	}

	partner.Insurances = append(partner.Insurances, ins)
	encoded, err := encodeInsurances(partner.Insurances)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE partners SET insurances = ? WHERE id = ?`, encoded, id); err != nil {
		return nil, fmt.Errorf("failed to update insurances: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit append: %w", err)
	}
	return partner, nil
}

func (a *Adapter) ListPartners(ctx context.Context) ([]*core.Partner, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT id, company_name, contact_person, company_email, phone, password_hash, insurances
		 FROM partners ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	defer rows.Close()

	var partners []*core.Partner
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, err
		}
		partners = append(partners, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate partners: %w", err)
	}
	return partners, nil
}

func scanPartner(row rowScanner) (*core.Partner, error) {
	partner := &core.Partner{}
	var insurances string
	err := row.Scan(&partner.ID, &partner.CompanyName, &partner.ContactPerson,
		&partner.CompanyEmail, &partner.Phone, &partner.PasswordHash, &insurances)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrPartnerNotFound
		}
		return nil, fmt.Errorf("failed to scan partner: %w", err)
	}

	partner.Insurances, err = decodeInsurances(insurances)
	if err != nil {
		return nil, err
	}
	return partner, nil
}
