package executor

import (
	"context"
	"fmt"

	"github.com/soyeahso/telcoassist/internal/domain"
	"github.com/soyeahso/telcoassist/internal/logging"
)

// Executor runs a business operation for an intent with the tracked slots.
// Failures are reported inside the result, never as a Go error: the policy
// engine turns them into APOLOGIZE actions.
type Executor interface {
	Execute(ctx context.Context, intent string, slots map[string]any) *domain.ExecutionResult
}

// SQLExecutor implements Executor over the SQLite business database.
type SQLExecutor struct {
	db  *DB
	log *logging.Logger
}

// NewSQLExecutor creates the executor.
func NewSQLExecutor(db *DB, log *logging.Logger) *SQLExecutor {
	return &SQLExecutor{db: db, log: log.Sub("executor")}
}

// Execute routes an intent to its operation. Unknown intents and internal
// errors produce a failed result.
func (e *SQLExecutor) Execute(ctx context.Context, intent string, slots map[string]any) *domain.ExecutionResult {
	e.log.Debug().Str("intent", intent).Int("slots", len(slots)).Msg("executing")

	var result *domain.ExecutionResult
	switch intent {
	case domain.IntentQueryPlans:
		result = e.queryPlans(ctx, slots)
	case domain.IntentQueryCurrentPlan:
		result = e.queryCurrentPlan(ctx, slots)
	case domain.IntentQueryPlanDetail:
		result = e.queryPlanDetail(ctx, slots)
	case domain.IntentChangePlan:
		result = e.changePlan(ctx, slots)
	case domain.IntentQueryUsage:
		result = e.queryUsage(ctx, slots)
	case domain.IntentConsultation:
		result = e.consultation(slots)
	default:
		result = &domain.ExecutionResult{
			Success: false,
			Error:   fmt.Sprintf("unknown operation: %s", intent),
		}
	}

	if !result.Success {
		e.log.Warn().Str("intent", intent).Str("error", result.Error).Msg("execution failed")
	}
	return result
}

func (e *SQLExecutor) queryPlans(ctx context.Context, slots map[string]any) *domain.ExecutionResult {
	query := `SELECT id, name, data_gb, voice_minutes, price, target_user, description
	          FROM plans WHERE status = 1`
	var args []any

	if v, ok := asFloat(slots[domain.SlotPriceMin]); ok {
		query += " AND price >= ?"
		args = append(args, v)
	}
	if v, ok := asFloat(slots[domain.SlotPriceMax]); ok {
		query += " AND price <= ?"
		args = append(args, v)
	}
	if v, ok := asFloat(slots[domain.SlotDataMin]); ok {
		query += " AND data_gb >= ?"
		args = append(args, v)
	}
	if v, ok := slots[domain.SlotTargetUser].(string); ok && v != "" {
		query += " AND (target_user = ? OR target_user = 'everyone')"
		args = append(args, v)
	}

	switch slots[domain.SlotSortBy] {
	case "price_desc":
		query += " ORDER BY price DESC"
	case "data_desc":
		query += " ORDER BY data_gb DESC"
	default:
		query += " ORDER BY price ASC"
	}

	rows, err := e.db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return dbFailure(err)
	}
	defer rows.Close()

	var plans []map[string]any
	for rows.Next() {
		var (
			id, dataGB, voice int
			price             float64
			name, target, dsc string
		)
		if err := rows.Scan(&id, &name, &dataGB, &voice, &price, &target, &dsc); err != nil {
			return dbFailure(err)
		}
		plans = append(plans, map[string]any{
			"id": id, "name": name, "data_gb": dataGB, "voice_minutes": voice,
			"price": price, "target_user": target, "description": dsc,
		})
	}
	if err := rows.Err(); err != nil {
		return dbFailure(err)
	}

	return &domain.ExecutionResult{Success: true, Count: len(plans), Data: plans}
}

func (e *SQLExecutor) queryCurrentPlan(ctx context.Context, slots map[string]any) *domain.ExecutionResult {
	phone, ok := slots[domain.SlotPhone].(string)
	if !ok || !ValidPhone(phone) {
		return &domain.ExecutionResult{Success: false, Error: "invalid phone number format"}
	}

	row := e.db.sql.QueryRowContext(ctx, `
		SELECT p.name, p.data_gb, p.voice_minutes, p.price, p.target_user, p.description,
		       u.usage_gb, u.usage_minutes, u.balance
		FROM users u LEFT JOIN plans p ON u.current_plan_id = p.id
		WHERE u.phone = ? AND u.status = 1`, phone)

	var (
		name, target, dsc string
		dataGB, voice     int
		price             float64
		usageGB, balance  float64
		usageMin          int
	)
	if err := row.Scan(&name, &dataGB, &voice, &price, &target, &dsc, &usageGB, &usageMin, &balance); err != nil {
		return &domain.ExecutionResult{Success: false, Error: "user not found"}
	}

	return &domain.ExecutionResult{
		Success: true,
		Count:   1,
		Data: map[string]any{
			"phone": phone, "package_name": name, "data_gb": dataGB,
			"voice_minutes": voice, "price": price, "target_user": target,
			"description": dsc, "monthly_usage_gb": usageGB,
			"monthly_usage_minutes": usageMin, "balance": balance,
		},
	}
}

func (e *SQLExecutor) queryPlanDetail(ctx context.Context, slots map[string]any) *domain.ExecutionResult {
	name, ok := slots[domain.SlotPlanName].(string)
	if !ok || name == "" {
		return &domain.ExecutionResult{Success: false, Error: "invalid plan name"}
	}

	row := e.db.sql.QueryRowContext(ctx, `
		SELECT id, name, data_gb, voice_minutes, price, target_user, description
		FROM plans WHERE name = ? AND status = 1`, name)

	var (
		id, dataGB, voice int
		price             float64
		planName, target  string
		dsc               string
	)
	if err := row.Scan(&id, &planName, &dataGB, &voice, &price, &target, &dsc); err != nil {
		return &domain.ExecutionResult{Success: false, Error: fmt.Sprintf("plan not found: %s", name)}
	}

	return &domain.ExecutionResult{
		Success: true,
		Count:   1,
		Data: map[string]any{
			"id": id, "name": planName, "data_gb": dataGB, "voice_minutes": voice,
			"price": price, "target_user": target, "description": dsc,
		},
	}
}

func (e *SQLExecutor) changePlan(ctx context.Context, slots map[string]any) *domain.ExecutionResult {
	phone, _ := slots[domain.SlotPhone].(string)
	if !ValidPhone(phone) {
		return &domain.ExecutionResult{Success: false, Error: "invalid phone number format"}
	}
	planName, _ := slots[domain.SlotNewPlanName].(string)
	if planName == "" {
		// The understanding layer sometimes files the target plan under the
		// generic plan-name slot.
		planName, _ = slots[domain.SlotPlanName].(string)
	}
	if planName == "" {
		return &domain.ExecutionResult{Success: false, Error: "invalid plan name"}
	}

	var (
		planID, dataGB, voice int
		price                 float64
	)
	err := e.db.sql.QueryRowContext(ctx,
		`SELECT id, price, data_gb, voice_minutes FROM plans WHERE name = ? AND status = 1`,
		planName,
	).Scan(&planID, &price, &dataGB, &voice)
	if err != nil {
		return &domain.ExecutionResult{Success: false, Error: fmt.Sprintf("plan not found: %s", planName)}
	}

	res, err := e.db.sql.ExecContext(ctx,
		`UPDATE users SET current_plan_id = ? WHERE phone = ?`, planID, phone)
	if err != nil {
		return dbFailure(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// First interaction with this subscriber: create the account.
		if _, err := e.db.sql.ExecContext(ctx,
			`INSERT INTO users (phone, current_plan_id) VALUES (?, ?)`, phone, planID); err != nil {
			return dbFailure(err)
		}
	}

	return &domain.ExecutionResult{
		Success: true,
		Message: fmt.Sprintf("The %s plan is now active for %s, effective next billing cycle.", planName, phone),
		Extra: map[string]any{
			"phone": phone, "new_package_name": planName, "price": price,
			"data_gb": dataGB, "voice_minutes": voice,
		},
	}
}

func (e *SQLExecutor) queryUsage(ctx context.Context, slots map[string]any) *domain.ExecutionResult {
	phone, ok := slots[domain.SlotPhone].(string)
	if !ok || !ValidPhone(phone) {
		return &domain.ExecutionResult{Success: false, Error: "invalid phone number format"}
	}

	row := e.db.sql.QueryRowContext(ctx,
		`SELECT usage_gb, usage_minutes, balance FROM users WHERE phone = ? AND status = 1`, phone)

	var (
		usageGB, balance float64
		usageMin         int
	)
	if err := row.Scan(&usageGB, &usageMin, &balance); err != nil {
		return &domain.ExecutionResult{Success: false, Error: "user not found"}
	}

	queryType, _ := slots[domain.SlotQueryType].(string)
	data := map[string]any{"phone": phone}
	if queryType == "data" || queryType == "all" || queryType == "" {
		data["monthly_usage_gb"] = usageGB
		data["monthly_usage_minutes"] = usageMin
	}
	if queryType == "balance" || queryType == "all" || queryType == "" {
		data["balance"] = balance
	}

	return &domain.ExecutionResult{Success: true, Count: 1, Data: data}
}

func (e *SQLExecutor) consultation(slots map[string]any) *domain.ExecutionResult {
	question, _ := slots[domain.SlotQuestion].(string)
	e.log.Debug().Str("question", question).Msg("consultation")
	return &domain.ExecutionResult{
		Success: true,
		Message: "Thanks for asking! You can keep asking about plans here, call 10086 for an agent, or check the website for details.",
	}
}

func dbFailure(err error) *domain.ExecutionResult {
	return &domain.ExecutionResult{Success: false, Error: "database error: " + err.Error()}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
