package executor

// migration is a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of schema migrations, including the
// seeded plan catalog.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create plans and users",
		SQL: `
			CREATE TABLE plans (
				id             INTEGER PRIMARY KEY AUTOINCREMENT,
				name           TEXT NOT NULL UNIQUE,
				data_gb        INTEGER NOT NULL,
				voice_minutes  INTEGER NOT NULL DEFAULT 0,
				price          REAL NOT NULL,
				target_user    TEXT NOT NULL DEFAULT 'everyone',
				description    TEXT NOT NULL DEFAULT '',
				status         INTEGER NOT NULL DEFAULT 1
			);

			CREATE INDEX idx_plans_price ON plans (price);

			CREATE TABLE users (
				id              INTEGER PRIMARY KEY AUTOINCREMENT,
				phone           TEXT NOT NULL UNIQUE,
				name            TEXT NOT NULL DEFAULT '',
				current_plan_id INTEGER REFERENCES plans(id),
				usage_gb        REAL NOT NULL DEFAULT 0,
				usage_minutes   INTEGER NOT NULL DEFAULT 0,
				balance         REAL NOT NULL DEFAULT 0,
				status          INTEGER NOT NULL DEFAULT 1
			);

			CREATE INDEX idx_users_phone ON users (phone);
		`,
	},
	{
		Version: 2,
		Name:    "seed plan catalog",
		SQL: `
			INSERT INTO plans (name, data_gb, voice_minutes, price, target_user, description) VALUES
				('Economy',   10,  200,  50, 'everyone', 'Entry-level plan for light use'),
				('Voyager',  100,  500, 180, 'everyone', 'Large data bundle for heavy browsing and video'),
				('Unlimited',1000, 1000, 300, 'everyone', 'No practical limits on data or calls'),
				('Campus',    30,  200,  30, 'student',  'Discounted plan for enrolled students');
		`,
	},
}
