// Package repository define las entidades y los contratos de persistencia
// del dominio (usuarios, compañías, roles y membresías).
//
// Estas interfaces son independientes del almacenamiento subyacente.
// Las implementaciones concretas viven en internal/store/memory y
// internal/store/pg.
//
// Arquitectura:
//
//	┌─────────────────────────────────────────────────────┐
//	│           Services / Controllers                    │
//	└─────────────────────────────────────────────────────┘
//	                        │
//	                        ▼
//	┌─────────────────────────────────────────────────────┐
//	│        domain/repository (interfaces)               │
//	│  UserRepository, CompanyRepository, RoleRepository, │
//	│  MembershipRepository                               │
//	└─────────────────────────────────────────────────────┘
//	                        │
//	               ┌────────┴────────┐
//	               ▼                 ▼
//	        ┌─────────────┐   ┌─────────────┐
//	        │ store/pg    │   │ store/memory│
//	        └─────────────┘   └─────────────┘
//
// Convenciones:
//   - Context siempre es el primer parámetro
//   - Los emails se normalizan a minúsculas antes de llegar aquí
//   - Errores de dominio están en errors.go
package repository
