// Package hcmtools provides the Oracle HCM absence management tools:
// person lookup, absence types, absence balances and projected balance.
package hcmtools
