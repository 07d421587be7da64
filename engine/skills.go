package engine

import "dungeon-manager/sdk"

// Component 3 — Skill Registry. An append-only (during
// Active) / edit-in-place (during Grace) set of content blobs whose
// concatenation, in append order, feeds the epoch skill hash. Grounded on
// the teacher's append-to-index-list pattern for the NFT collection
// registry (contract/nftcollections.go's name→id index).

func loadSkillNames(host sdk.Host) []string {
	v := host.StateGetObject(keySkillNames())
	if v == nil {
		return nil
	}
	return FromJSON[[]string](host, *v, "skill names")
}

func saveSkillNames(host sdk.Host, names []string) {
	host.StateSetObject(keySkillNames(), ToJSON(host, names, "skill names"))
}

func loadSkill(host sdk.Host, name string) Skill {
	v := host.StateGetObject(keySkill(name))
	if v == nil {
		return Skill{Name: name}
	}
	return FromJSON[Skill](host, *v, "skill")
}

func saveSkill(host sdk.Host, s Skill) {
	host.StateSetObject(keySkill(s.Name), ToJSON(host, s, "skill"))
}

func skillExists(host sdk.Host, name string) bool {
	return host.StateGetObject(keySkill(name)) != nil
}

// AddSkill (owner-only) registers a brand-new skill. Allowed in either
// epoch phase — only *editing* an existing skill is Grace-restricted.
func AddSkill(host sdk.Host, name, content string, now uint64) {
	requireOwner(host)
	requireResource(host, len(content) <= MaxSkillLength, CodeSkillTooLong, "")
	RequirePrecondition(host, !skillExists(host, name), CodeInvalidSkillID, "skill already exists")

	names := loadSkillNames(host)
	names = append(names, name)
	saveSkillNames(host, names)
	saveSkill(host, Skill{Name: name, Content: content, UpdatedAt: now})
	emitSkillAdded(host, name)
}

// UpdateSkill (owner-only, Grace-only) replaces an existing skill's
// content. Editing outside Grace would let the owner shift the rules a
// live Active-epoch session is already running under.
func UpdateSkill(host sdk.Host, name, content string, now uint64) {
	requireOwner(host)
	requireEpochGrace(host)
	requireResource(host, len(content) <= MaxSkillLength, CodeSkillTooLong, "")
	RequirePrecondition(host, skillExists(host, name), CodeInvalidSkillID, "")

	s := loadSkill(host, name)
	s.Content = content
	s.UpdatedAt = now
	saveSkill(host, s)
	emitSkillUpdated(host, name)
}

// RemoveSkill (owner-only, Grace-only) drops a skill from both the
// registry and the name index, so it no longer contributes to the next
// epoch's skill hash.
func RemoveSkill(host sdk.Host, name string) {
	requireOwner(host)
	requireEpochGrace(host)
	RequirePrecondition(host, skillExists(host, name), CodeInvalidSkillID, "")

	names := loadSkillNames(host)
	filtered := names[:0]
	for _, n := range names {
		if n != name {
			filtered = append(filtered, n)
		}
	}
	saveSkillNames(host, filtered)
	host.StateDeleteObject(keySkill(name))
	emitSkillRemoved(host, name)
}
