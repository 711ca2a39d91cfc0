// Package heritage holds heritage sites, their categories, and the
// jurisdiction records tying each site to the countries that govern it.
//
// The jurisdiction set of a site is kept in step with the countries submitted
// on every create and update: DiffJurisdictions computes the minimal change
// and SQLiteRepository applies it in the same transaction as the site row.
package heritage
