package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ohalushka/polis/core"
)

func (a *Adapter) CreatePartner(ctx context.Context, p *core.Partner) error {
	insurances, err := json.Marshal(orEmpty(p.Insurances))
	if err != nil {
		return fmt.Errorf("failed to encode insurances: %w", err)
	}

	err = a.pool.QueryRow(ctx,
		`INSERT INTO partners (company_name, contact_person, company_email, phone, password_hash, insurances)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		p.CompanyName, p.ContactPerson, p.CompanyEmail, p.Phone, p.PasswordHash, insurances).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrPartnerExists
		}
		return fmt.Errorf("failed to insert partner: %w", err)
	}
	return nil
}

func (a *Adapter) GetPartnerByID(ctx context.Context, id int64) (*core.Partner, error) {
	row := a.pool.QueryRow(ctx,
		`SELECT id, company_name, contact_person, company_email, phone, password_hash, insurances
		 FROM partners WHERE id = $1`, id)
	return scanPartner(row)
}

func (a *Adapter) GetPartnerByEmail(ctx context.Context, companyEmail string) (*core.Partner, error) {
	row := a.pool.QueryRow(ctx,
		`SELECT id, company_name, contact_person, company_email, phone, password_hash, insurances
		 FROM partners WHERE company_email = $1`, companyEmail)
	return scanPartner(row)
}

func (a *Adapter) AppendPartnerInsurance(ctx context.Context, id int64, ins core.Insurance) (*core.Partner, error) {
	encoded, err := json.Marshal(ins)
	if err != nil {
		return nil, fmt.Errorf("failed to encode insurance: %w", err)
	}

	row := a.pool.QueryRow(ctx,
		`UPDATE partners SET insurances = insurances || $2::jsonb WHERE id = $1
		 RETURNING id, company_name, contact_person, company_email, phone, password_hash, insurances`,
		id, encoded)
	return scanPartner(row)
}

func (a *Adapter) ListPartners(ctx context.Context) ([]*core.Partner, error) {
	rows, err := a.pool.Query(ctx,
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
	var insurances []byte
	err := row.Scan(&partner.ID, &partner.CompanyName, &partner.ContactPerson,
		&partner.CompanyEmail, &partner.Phone, &partner.PasswordHash, &insurances)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrPartnerNotFound
		}
		return nil, fmt.Errorf("failed to scan partner: %w", err)
	}

	if err := json.Unmarshal(insurances, &partner.Insurances); err != nil {
		return nil, fmt.Errorf("failed to decode insurances: %w", err)
	}
	if len(partner.Insurances) == 0 {
		partner.Insurances = nil
	}
	return partner, nil
}
