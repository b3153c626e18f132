package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserProfile_IsCompleteForEligibility(t *testing.T) {
	age := 25
	state := "Bihar"

	profile := &UserProfile{}
	assert.False(t, profile.IsCompleteForEligibility(), "Empty profile is incomplete")

	profile.Age = &age
	assert.False(t, profile.IsCompleteForEligibility(), "Age alone is not enough")

	profile.State = &state
	assert.True(t, profile.IsCompleteForEligibility(), "Age and state satisfy the minimum")
}

func TestUserProfile_MissingFieldsInPriorityOrder(t *testing.T) {
	state := "Bihar"
	gender := GenderFemale
	profile := &UserProfile{State: &state, Gender: &gender}

	missing := profile.MissingFields()

	assert.Equal(t, []string{
		FieldAge,
		FieldEducationLevel,
		FieldIncomeRange,
		FieldCategory,
		FieldOccupation,
	}, missing)
}

func TestPartialProfile_MergeLastWriteWins(t *testing.T) {
	oldAge := 25
	newAge := 30
	state := "Kerala"

	profile := &UserProfile{Age: &oldAge, State: &state}
	partial := &PartialProfile{Age: &newAge}

	changed := partial.Merge(profile)

	assert.True(t, changed)
	require.NotNil(t, profile.Age)
	assert.Equal(t, 30, *profile.Age, "Later extraction overwrites the earlier value")
	require.NotNil(t, profile.State)
	assert.Equal(t, "Kerala", *profile.State, "Unmentioned fields are untouched")
}

func TestPartialProfile_MergeSameValueReportsNoChange(t *testing.T) {
	age := 25
	profile := &UserProfile{Age: &age}
	same := 25
	partial := &PartialProfile{Age: &same}

	changed := partial.Merge(profile)

	assert.False(t, changed, "Re-stating the same value is not a change")
}

func TestPartialProfile_MergeCopiesValues(t *testing.T) {
	age := 25
	partial := &PartialProfile{Age: &age}
	profile := &UserProfile{}

	partial.Merge(profile)
	age = 99

	require.NotNil(t, profile.Age)
	assert.Equal(t, 25, *profile.Age, "Merge must not alias the partial's pointers")
}

func TestUserProfile_CloneSharesNoPointers(t *testing.T) {
	age := 25
	state := "Kerala"
	gender := GenderFemale
	profile := &UserProfile{Age: &age, State: &state, Gender: &gender}

	clone := profile.Clone()
	age = 99
	state = "Bihar"

	require.NotNil(t, clone.Age)
	assert.Equal(t, 25, *clone.Age)
	require.NotNil(t, clone.State)
	assert.Equal(t, "Kerala", *clone.State)
	assert.Nil(t, clone.EducationLevel, "Unset fields stay unset")
}

func TestSession_CloneIsIndependent(t *testing.T) {
	age := 25
	sess := &Session{ID: "s1", Profile: UserProfile{Age: &age}}
	sess.MarkAsked(FieldAge)
	sess.AddMessage(RoleUser, "hello")

	clone := sess.Clone()
	clone.MarkAsked(FieldState)
	clone.AddMessage(RoleUser, "tamper")
	*clone.Profile.Age = 99

	assert.Len(t, sess.AskedQuestions, 1)
	assert.Len(t, sess.History, 1)
	assert.Equal(t, 25, *sess.Profile.Age)
}

func TestPartialProfile_IsEmpty(t *testing.T) {
	assert.True(t, (&PartialProfile{}).IsEmpty())

	occupation := OccupationFarmer
	assert.False(t, (&PartialProfile{Occupation: &occupation}).IsEmpty())
}

func TestIncomeRange_UpperBoundRupees(t *testing.T) {
	assert.Equal(t, 100000, IncomeBelow1Lakh.UpperBoundRupees())
	assert.Equal(t, 300000, Income1To3Lakh.UpperBoundRupees())
	assert.Equal(t, 500000, Income3To5Lakh.UpperBoundRupees())
	assert.Equal(t, 800000, Income5To8Lakh.UpperBoundRupees())
	assert.Equal(t, -1, IncomeAbove8Lakh.UpperBoundRupees(), "Top bracket is open-ended")
}

func TestFieldOrder_MatchesQuestionPriority(t *testing.T) {
	assert.Equal(t, []string{
		FieldAge,
		FieldState,
		FieldEducationLevel,
		FieldIncomeRange,
		FieldCategory,
		FieldGender,
		FieldOccupation,
	}, FieldOrder())
}
