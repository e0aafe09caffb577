package auth

import (
	"sort"

	"undian/internal/identity"
	"undian/internal/models"
	"undian/internal/store"
)

// Bootstrap credentials for the first run. Change the password immediately on
// a real deployment.
const (
	superAdminUsername = "admin"
	superAdminPassword = "admin123"
)

// EnsureSuperAdmin seeds the bootstrap super admin, only while the user
// collection is empty, so it happens exactly once per store lifetime.
func EnsureSuperAdmin(st *store.Store, hasher identity.Hasher) error {
	if len(st.GetAll(store.KindUsers)) > 0 {
		return nil
	}
	_, err := st.Insert(store.KindUsers, models.User{
		Username: superAdminUsername,
		Password: hasher.Hash(superAdminPassword),
		Role:     models.RoleAdmin,
		Nama:     "Super Administrator",
		IsSuper:  true,
	})
	return err
}

// IsSuperAdmin reports whether the user id belongs to the bootstrap account.
func IsSuperAdmin(st *store.Store, id string) bool {
	doc := st.GetByID(store.KindUsers, id)
	return doc != nil && doc.Bool("is_super")
}

// DeleteUser removes a user account. The bootstrap super admin is refused.
func DeleteUser(st *store.Store, id string) bool {
	if IsSuperAdmin(st, id) {
		return false
	}
	return st.Delete(store.KindUsers, id)
}

// ActiveStores lists the distinct non-empty toko names across kasir accounts
// in ascending order, for the store-selection UI.
func ActiveStores(st *store.Store) []string {
	seen := make(map[string]bool)
	var stores []string
	for _, doc := range st.FindBy(store.KindUsers, "role", models.RoleKasir) {
		name := doc.Str("toko_name")
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		stores = append(stores, name)
	}
	sort.Strings(stores)
	return stores
}
