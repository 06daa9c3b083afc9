package db

import "gorm.io/gorm"

// sqliteSchema mirrors the postgres migrations for the in-memory demo store.
// Enum columns become TEXT; IDs are assigned client-side by the model hooks.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  full_name TEXT NOT NULL,
  avatar_url TEXT,
  subscription_tier TEXT NOT NULL DEFAULT 'free',
  onboarding_completed INTEGER NOT NULL DEFAULT 0,
  fallback_deal_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS vehicles (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  year INTEGER NOT NULL,
  make TEXT NOT NULL,
  model TEXT NOT NULL,
  trim TEXT,
  vin TEXT,
  stock_number TEXT,
  mileage INTEGER NOT NULL DEFAULT 0,
  condition TEXT,
  exterior_color TEXT,
  interior_color TEXT,
  image_url TEXT,
  listing_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS dealers (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  address TEXT,
  phone TEXT,
  website TEXT,
  contact_email TEXT,
  sales_rep_name TEXT,
  rating INTEGER,
  notes TEXT,
  is_fallback INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS deals (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  vehicle_id TEXT,
  dealer_id TEXT NOT NULL,
  asking_price NUMERIC,
  current_offer NUMERIC,
  target_price NUMERIC,
  fees_breakdown TEXT,
  purchase_type TEXT NOT NULL DEFAULT 'cash',
  status TEXT NOT NULL DEFAULT 'quote_requested',
  priority TEXT NOT NULL DEFAULT 'medium',
  quote_expires DATETIME,
  negotiation_notes TEXT,
  final_price NUMERIC,
  negotiation_duration_days INTEGER,
  shared_anonymously INTEGER NOT NULL DEFAULT 0,
  is_fallback INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS messages (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  deal_id TEXT NOT NULL,
  dealer_id TEXT NOT NULL,
  content TEXT NOT NULL,
  subject TEXT,
  recipient TEXT,
  direction TEXT NOT NULL,
  channel TEXT NOT NULL DEFAULT 'app',
  is_read INTEGER NOT NULL DEFAULT 0,
  contains_offer INTEGER NOT NULL DEFAULT 0,
  extracted_price NUMERIC,
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS market_data (
  id TEXT PRIMARY KEY,
  vehicle_year INTEGER NOT NULL,
  vehicle_make TEXT NOT NULL,
  vehicle_model TEXT NOT NULL,
  vehicle_trim TEXT,
  mileage_range TEXT NOT NULL,
  purchase_type TEXT NOT NULL,
  asking_price NUMERIC NOT NULL,
  final_price NUMERIC NOT NULL,
  savings_amount NUMERIC NOT NULL,
  savings_percentage NUMERIC NOT NULL,
  negotiation_duration_days INTEGER NOT NULL,
  region TEXT NOT NULL DEFAULT 'other',
  deal_outcome TEXT NOT NULL,
  created_at DATETIME
);`,
}

func createDemoSchema(conn *gorm.DB) error {
	for _, stmt := range sqliteSchema {
		if err := conn.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
