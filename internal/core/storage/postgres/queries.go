package postgres

// SQL queries for sales fact storage

const (
	// queryPeriodExists backs the duplicate guard. Existence only, so the
	// planner can stop at the first matching row of idx_fact_sales_period.
	queryPeriodExists = `
		SELECT EXISTS (
			SELECT 1 FROM fact_sales WHERE period = $1
		)
	`

	// queryInsertSale inserts one fact. Prepared once per batch transaction.
	queryInsertSale = `
		INSERT INTO fact_sales (
			branch, period, product_code,
			units_sold, units_returned, net, ingest_run
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	// queryListByPeriod returns one day of facts in a stable order.
	queryListByPeriod = `
		SELECT
			branch, period, product_code,
			units_sold, units_returned, net
		FROM fact_sales
		WHERE period = $1
		ORDER BY branch ASC, product_code ASC, id ASC
	`

	// queryListByPeriodAndBranch narrows queryListByPeriod to one branch.
	queryListByPeriodAndBranch = `
		SELECT
			branch, period, product_code,
			units_sold, units_returned, net
		FROM fact_sales
		WHERE period = $1
		  AND branch = $2
		ORDER BY product_code ASC, id ASC
	`

	queryTableExists = `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = 'fact_sales'
		)
	`
)
