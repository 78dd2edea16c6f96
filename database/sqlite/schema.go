package sqlite

import (
	"log"

	"github.com/jmoiron/sqlx"
)

func dbInitSchema(d *sqlx.DB) error {
	schema := []string{
		// This is needed to improve concurrent reads and writes.
		`PRAGMA journal_mode = WAL;`,
		// Without this foreign key constraints won't be enforced and cascade deletes won't happen.
		`PRAGMA foreign_keys = ON;`,

		`CREATE TABLE IF NOT EXISTS users (
id INTEGER PRIMARY KEY AUTOINCREMENT,
username TEXT NOT NULL,
password TEXT NOT NULL,
created DATETIME);`,

		`CREATE UNIQUE INDEX IF NOT EXISTS users_name_idx ON users (username);`,

		`CREATE TABLE IF NOT EXISTS subscription_plans (
id INTEGER PRIMARY KEY AUTOINCREMENT,
name TEXT NOT NULL,
allows_audio BOOLEAN NOT NULL,
allows_video BOOLEAN NOT NULL);`,

		`CREATE TABLE IF NOT EXISTS subscriptions (
id INTEGER PRIMARY KEY AUTOINCREMENT,
userid INTEGER NOT NULL,
planid INTEGER,
startdate DATETIME,
enddate DATETIME,
active BOOLEAN NOT NULL,
FOREIGN KEY (userid) REFERENCES users(id) ON DELETE CASCADE,
FOREIGN KEY (planid) REFERENCES subscription_plans(id));`,

		`CREATE INDEX IF NOT EXISTS subscriptions_userid_idx ON subscriptions (userid);`,

		`CREATE TABLE IF NOT EXISTS profiles (
id INTEGER PRIMARY KEY AUTOINCREMENT,
userid INTEGER NOT NULL,
name TEXT NOT NULL,
pin TEXT NOT NULL,
preferences TEXT,
FOREIGN KEY (userid) REFERENCES users(id) ON DELETE CASCADE);`,

		`CREATE INDEX IF NOT EXISTS profiles_userid_idx ON profiles (userid);`,

		`CREATE TABLE IF NOT EXISTS content (
id INTEGER PRIMARY KEY AUTOINCREMENT,
title TEXT NOT NULL,
description TEXT,
coverart TEXT,
mediatype TEXT NOT NULL,
url TEXT,
created DATETIME);`,

		`CREATE INDEX IF NOT EXISTS content_mediatype_idx ON content (mediatype);`,

		`CREATE TABLE IF NOT EXISTS playlists (
id INTEGER PRIMARY KEY AUTOINCREMENT,
profileid INTEGER NOT NULL,
name TEXT NOT NULL,
type TEXT,
created DATETIME,
FOREIGN KEY (profileid) REFERENCES profiles(id) ON DELETE CASCADE);`,

		`CREATE INDEX IF NOT EXISTS playlists_profileid_idx ON playlists (profileid);`,

		`CREATE TABLE IF NOT EXISTS playlist_items (
playlistid INTEGER NOT NULL,
contentid INTEGER NOT NULL,
itemorder INTEGER NOT NULL,
PRIMARY KEY (playlistid, contentid),
FOREIGN KEY (playlistid) REFERENCES playlists(id) ON DELETE CASCADE,
FOREIGN KEY (contentid) REFERENCES content(id));`,

		`CREATE TABLE IF NOT EXISTS usage_metrics (
id INTEGER PRIMARY KEY AUTOINCREMENT,
profileid INTEGER NOT NULL,
mediatype TEXT NOT NULL,
playbackseconds INTEGER NOT NULL,
timestamp DATETIME NOT NULL,
FOREIGN KEY (profileid) REFERENCES profiles(id) ON DELETE CASCADE);`,

		`CREATE INDEX IF NOT EXISTS usage_metrics_profileid_idx ON usage_metrics (profileid);`,

		`CREATE TABLE IF NOT EXISTS recommendations (
id INTEGER PRIMARY KEY AUTOINCREMENT,
originid INTEGER NOT NULL,
suggestid INTEGER NOT NULL,
FOREIGN KEY (originid) REFERENCES content(id),
FOREIGN KEY (suggestid) REFERENCES content(id));`,

		`CREATE INDEX IF NOT EXISTS recommendations_originid_idx ON recommendations (originid);`,
	}

	for _, query := range schema {
		if _, err := d.Exec(query); err != nil {
			log.Printf("dbInitSchema error: %s", err)
			return err
		}
	}
	return nil
}
