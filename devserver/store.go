package devserver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/etnz/profiles"
)

var (
	errNotFound  = errors.New("Company not found")
	errDuplicate = errors.New("a company with this name already exists")
)

type companyRow struct {
	ID                 int     `gorm:"primaryKey"`
	Name               string  `gorm:"uniqueIndex;not null"`
	Ticker             *string `gorm:"size:20"`
	MainBusiness       *string
	EmployeeCount      *int
	MarketPosition     *string
	Differentiation    *string
	SupplyChainControl *string
	Industry           *industryRow `gorm:"foreignKey:CompanyID"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (companyRow) TableName() string { return "companies" }

type industryRow struct {
	ID                 int `gorm:"primaryKey"`
	CompanyID          int `gorm:"uniqueIndex;not null"`
	IndustryCategory   *string
	IndustrySize       decimal.NullDecimal `gorm:"type:numeric"`
	ConcentrationLevel *string
	IndustryBarrier    *string
	IndustryCAGR5y     decimal.NullDecimal `gorm:"column:industry_cagr_5y;type:numeric"`
	MajorCompetitors   *string
	IndustryTrend      *string
}

func (industryRow) TableName() string { return "industry_profiles" }

// statementValue is one attribute of one yearly statement of a company.
type statementValue struct {
	ID        int             `gorm:"primaryKey"`
	CompanyID int             `gorm:"uniqueIndex:idx_statement_value;not null"`
	Type      string          `gorm:"uniqueIndex:idx_statement_value;size:10;not null"`
	Year      string          `gorm:"uniqueIndex:idx_statement_value;size:10;not null"`
	Attribute string          `gorm:"uniqueIndex:idx_statement_value;size:100;not null"`
	Value     decimal.Decimal `gorm:"type:numeric;not null"`
}

func (statementValue) TableName() string { return "statement_values" }

// store is the gorm storage of the server.
type store struct {
	db *gorm.DB
}

// openStore connects to the configured database and migrates its schema.
func openStore(cfg DatabaseConfig) (*store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		dialector = sqlite.Open(cfg.DSN)
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("cannot open %s database: %w", cfg.Driver, err)
	}
	if cfg.Driver != "postgres" {
		// Every connection to ":memory:" is a database of its own.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&companyRow{}, &industryRow{}, &statementValue{}); err != nil {
		return nil, fmt.Errorf("cannot migrate database: %w", err)
	}
	return &store{db: db}, nil
}

func (s *store) close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// session returns the db for ctx, timed as "db" in the Server-Timing header.
func (s *store) session(ctx context.Context) (*gorm.DB, func()) {
	stop := func() {}
	if t := servertiming.FromContext(ctx); t != nil {
		m := t.NewMetric("db").WithDesc("database").Start()
		stop = func() { m.Stop() }
	}
	return s.db.WithContext(ctx), stop
}

// listCompanies returns the page (1-based) of companies matching filters.
// Known filters are name and ticker, matched as case insensitive substrings.
func (s *store) listCompanies(ctx context.Context, page, size int, filters map[string]string) ([]profiles.Company, int, error) {
	db, stop := s.session(ctx)
	defer stop()

	q := db.Model(&companyRow{})
	for _, col := range []string{"name", "ticker"} {
		if v := strings.TrimSpace(filters[col]); v != "" {
			q = q.Where("LOWER("+col+") LIKE ?", "%"+strings.ToLower(v)+"%")
		}
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []companyRow
	err := q.Preload("Industry").Order("id").Offset((page - 1) * size).Limit(size).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	items := make([]profiles.Company, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.company())
	}
	return items, int(total), nil
}

func (s *store) getCompany(ctx context.Context, id int) (profiles.Company, error) {
	db, stop := s.session(ctx)
	defer stop()
	row, err := findCompany(db, id)
	if err != nil {
		return profiles.Company{}, err
	}
	return row.company(), nil
}

func findCompany(db *gorm.DB, id int) (companyRow, error) {
	var row companyRow
	err := db.Preload("Industry").First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return row, errNotFound
	}
	return row, err
}

// nameTaken reports whether another company than id is named name.
func nameTaken(db *gorm.DB, name string, id int) (bool, error) {
	var n int64
	err := db.Model(&companyRow{}).Where("name = ? AND id <> ?", name, id).Count(&n).Error
	return n > 0, err
}

func (s *store) createCompany(ctx context.Context, c profiles.Company) (profiles.Company, error) {
	db, stop := s.session(ctx)
	defer stop()

	row := newCompanyRow(c)
	err := db.Transaction(func(tx *gorm.DB) error {
		taken, err := nameTaken(tx, row.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return errDuplicate
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return profiles.Company{}, err
	}
	return row.company(), nil
}

// updateCompany replaces the company id with c. The industry profile is
// replaced when c has one and kept otherwise.
func (s *store) updateCompany(ctx context.Context, id int, c profiles.Company) (profiles.Company, error) {
	db, stop := s.session(ctx)
	defer stop()

	var updated companyRow
	err := db.Transaction(func(tx *gorm.DB) error {
		current, err := findCompany(tx, id)
		if err != nil {
			return err
		}
		next := newCompanyRow(c)
		taken, err := nameTaken(tx, next.Name, id)
		if err != nil {
			return err
		}
		if taken {
			return errDuplicate
		}
		next.ID, next.CreatedAt = current.ID, current.CreatedAt
		if err := tx.Omit(clause.Associations).Save(&next).Error; err != nil {
			return err
		}
		if next.Industry != nil {
			next.Industry.CompanyID = id
			if current.Industry != nil {
				next.Industry.ID = current.Industry.ID
			}
			if err := tx.Save(next.Industry).Error; err != nil {
				return err
			}
		}
		updated, err = findCompany(tx, id)
		return err
	})
	if err != nil {
		return profiles.Company{}, err
	}
	return updated.company(), nil
}

// deleteCompany removes the company with its industry profile and statements.
func (s *store) deleteCompany(ctx context.Context, id int) error {
	db, stop := s.session(ctx)
	defer stop()

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ?", id).Delete(&industryRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", id).Delete(&statementValue{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&companyRow{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errNotFound
		}
		return nil
	})
}

// statement is one fiscal year of a statement, attribute to value.
type statement struct {
	Year   string
	Values map[string]decimal.Decimal
}

// saveStatements replaces the values of the statement years.
func (s *store) saveStatements(ctx context.Context, companyID int, typ profiles.StatementType, statements []statement) (int, error) {
	db, stop := s.session(ctx)
	defer stop()

	count := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := findCompany(tx, companyID); err != nil {
			return err
		}
		for _, st := range statements {
			err := tx.Where("company_id = ? AND type = ? AND year = ?", companyID, string(typ), st.Year).
				Delete(&statementValue{}).Error
			if err != nil {
				return err
			}
			if len(st.Values) == 0 {
				continue
			}
			rows := make([]statementValue, 0, len(st.Values))
			for attr, v := range st.Values {
				rows = append(rows, statementValue{CompanyID: companyID, Type: string(typ), Year: st.Year, Attribute: attr, Value: v})
			}
			sort.Slice(rows, func(i, j int) bool { return rows[i].Attribute < rows[j].Attribute })
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
			count += len(rows)
		}
		return nil
	})
	return count, err
}

// series returns the yearly values of attributes for a company, whatever
// the statement they come from.
func (s *store) series(ctx context.Context, companyID int, attributes []string) (map[string]profiles.Series, error) {
	db, stop := s.session(ctx)
	defer stop()

	var rows []statementValue
	err := db.Where("company_id = ? AND attribute IN ?", companyID, attributes).Order("year").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]profiles.Series, len(attributes))
	for _, r := range rows {
		out[r.Attribute] = append(out[r.Attribute], profiles.Point{Year: r.Year, Value: r.Value})
	}
	return out, nil
}

func (s *store) countCompanies(ctx context.Context) (int, error) {
	db, stop := s.session(ctx)
	defer stop()
	var n int64
	err := db.Model(&companyRow{}).Count(&n).Error
	return int(n), err
}

func newCompanyRow(c profiles.Company) companyRow {
	row := companyRow{
		Name:               strings.TrimSpace(c.Name),
		Ticker:             c.Ticker,
		MainBusiness:       c.MainBusiness,
		EmployeeCount:      c.EmployeeCount,
		MarketPosition:     c.MarketPosition,
		Differentiation:    c.Differentiation,
		SupplyChainControl: c.SupplyChainControl,
	}
	if p := c.IndustryProfile; p != nil {
		row.Industry = &industryRow{
			IndustryCategory:   p.IndustryCategory,
			IndustrySize:       p.IndustrySize,
			ConcentrationLevel: p.ConcentrationLevel,
			IndustryBarrier:    p.IndustryBarrier,
			IndustryCAGR5y:     p.IndustryCAGR5y,
			MajorCompetitors:   p.MajorCompetitors,
			IndustryTrend:      p.IndustryTrend,
		}
	}
	return row
}

func (r companyRow) company() profiles.Company {
	c := profiles.Company{
		ID:                 r.ID,
		Name:               r.Name,
		Ticker:             r.Ticker,
		MainBusiness:       r.MainBusiness,
		EmployeeCount:      r.EmployeeCount,
		MarketPosition:     r.MarketPosition,
		Differentiation:    r.Differentiation,
		SupplyChainControl: r.SupplyChainControl,
	}
	if p := r.Industry; p != nil {
		c.IndustryProfile = &profiles.IndustryProfile{
			ID:                 profiles.Ptr(p.ID),
			IndustryCategory:   p.IndustryCategory,
			IndustrySize:       p.IndustrySize,
			ConcentrationLevel: p.ConcentrationLevel,
			IndustryBarrier:    p.IndustryBarrier,
			IndustryCAGR5y:     p.IndustryCAGR5y,
			MajorCompetitors:   p.MajorCompetitors,
			IndustryTrend:      p.IndustryTrend,
		}
	}
	return c
}
