package ast

// Visitor is implemented by passes over the tree. Each node's Accept calls
// the matching method; visitors recurse into children themselves.
type Visitor interface {
	VisitProgram(*Program)

	VisitLetStatement(*LetStatement)
	VisitTypeStatement(*TypeStatement)
	VisitModuleStatement(*ModuleStatement)
	VisitUseStatement(*UseStatement)
	VisitExpressionStatement(*ExpressionStatement)

	VisitIntegerLiteral(*IntegerLiteral)
	VisitFloatLiteral(*FloatLiteral)
	VisitCharLiteral(*CharLiteral)
	VisitBooleanLiteral(*BooleanLiteral)
	VisitUnitLiteral(*UnitLiteral)
	VisitStringLiteral(*StringLiteral)
	VisitPathExpression(*PathExpression)
	VisitInfixExpression(*InfixExpression)
	VisitPrefixExpression(*PrefixExpression)
	VisitAssignExpression(*AssignExpression)
	VisitCallExpression(*CallExpression)
	VisitStructLiteral(*StructLiteral)
	VisitArrayLiteral(*ArrayLiteral)
	VisitIndexExpression(*IndexExpression)
	VisitIfExpression(*IfExpression)
	VisitBlockExpression(*BlockExpression)
	VisitClosureExpression(*ClosureExpression)
	VisitRangeExpression(*RangeExpression)
	VisitForExpression(*ForExpression)
	VisitMatchExpression(*MatchExpression)

	VisitUnitType(*UnitType)
	VisitNamedType(*NamedType)
	VisitFunctionType(*FunctionType)
	VisitArrayType(*ArrayType)
}
