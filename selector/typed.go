package selector

// Create1 composes one typed input selector.
func Create1[S, A1, T any](
	s1 func(S) A1,
	transform func(A1) T,
	opts ...Option,
) Func[S, T] {
	return Create(
		[]func(S) any{Erase(s1)},
		func(args []any) T {
			return transform(arg[A1](args, 0))
		},
		opts...,
	)
}

// Create2 composes two typed input selectors.
func Create2[S, A1, A2, T any](
	s1 func(S) A1,
	s2 func(S) A2,
	transform func(A1, A2) T,
	opts ...Option,
) Func[S, T] {
	return Create(
		[]func(S) any{Erase(s1), Erase(s2)},
		func(args []any) T {
			return transform(arg[A1](args, 0), arg[A2](args, 1))
		},
		opts...,
	)
}

// Create3 composes three typed input selectors.
func Create3[S, A1, A2, A3, T any](
	s1 func(S) A1,
	s2 func(S) A2,
	s3 func(S) A3,
	transform func(A1, A2, A3) T,
	opts ...Option,
) Func[S, T] {
	return Create(
		[]func(S) any{Erase(s1), Erase(s2), Erase(s3)},
		func(args []any) T {
			return transform(arg[A1](args, 0), arg[A2](args, 1), arg[A3](args, 2))
		},
		opts...,
	)
}

// Create4 composes four typed input selectors. Wider compositions use Create.
func Create4[S, A1, A2, A3, A4, T any](
	s1 func(S) A1,
	s2 func(S) A2,
	s3 func(S) A3,
	s4 func(S) A4,
	transform func(A1, A2, A3, A4) T,
	opts ...Option,
) Func[S, T] {
	return Create(
		[]func(S) any{Erase(s1), Erase(s2), Erase(s3), Erase(s4)},
		func(args []any) T {
			return transform(arg[A1](args, 0), arg[A2](args, 1), arg[A3](args, 2), arg[A4](args, 3))
		},
		opts...,
	)
}

// arg reads the i-th argument as A. A nil argument of interface type A yields the zero value.
func arg[A any](args []any, i int) A {
	a, _ := args[i].(A)
	return a
}
