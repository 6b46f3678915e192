// Package taxonomy loads the technique vocabulary that folder names are
// classified against. The default index is embedded; deployments may point
// at a JSON file to override it.
package taxonomy
