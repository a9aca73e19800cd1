package catalog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository loads catalog rows from Postgres.
type Repository interface {
	ListProducts(ctx context.Context) ([]Product, error)
	ListZones(ctx context.Context) ([]Zone, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository wires a Repository over a pgx pool.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) ListProducts(ctx context.Context) ([]Product, error) {
	const query = `SELECT id, description, unit, base_cost, annual_increase, categoria, linea, sublinea FROM products ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	index := map[string]int{}
	for rows.Next() {
		var p Product
		var increase *float64
		if err := rows.Scan(&p.ID, &p.Description, &p.Unit, &p.BaseCost, &increase, &p.Categoria, &p.Linea, &p.Sublinea); err != nil {
			return nil, err
		}
		p.AnnualIncrease = DefaultAnnualIncrease
		if increase != nil && *increase > 0 {
			p.AnnualIncrease = *increase
		}
		p.Prices = map[string]float64{}
		index[p.ID] = len(products)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const priceQuery = `SELECT product_id, zone_key, unit_price FROM product_prices`
	priceRows, err := r.db.Query(ctx, priceQuery)
	if err != nil {
		return nil, err
	}
	defer priceRows.Close()

	for priceRows.Next() {
		var productID, zoneKey string
		var price float64
		if err := priceRows.Scan(&productID, &zoneKey, &price); err != nil {
			return nil, err
		}
		if i, ok := index[productID]; ok {
			products[i].Prices[zoneKey] = price
		}
	}
	return products, priceRows.Err()
}

func (r *repository) ListZones(ctx context.Context) ([]Zone, error) {
	const query = `SELECT id, name, lookup_key FROM zones ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zones []Zone
	for rows.Next() {
		var z Zone
		if err := rows.Scan(&z.ID, &z.Name, &z.Key); err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}
